package port_reader

import "errors"

var ErrPortLocked = errors.New("serial port is already locked by another process")
