package rangeclient

import (
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// probe sends one unprivileged (UDP) echo request to host.
func probe(host string) error {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return err
	}

	pinger.Count = 1
	pinger.Timeout = 2 * time.Second
	pinger.SetPrivileged(false)

	if err := pinger.Run(); err != nil {
		return err
	}
	if pinger.Statistics().PacketsRecv == 0 {
		return fmt.Errorf("no response from %s", host)
	}
	return nil
}
