//go:build !linux

package web

import (
	"net"
	"time"
)

func tcpRTT(net.Conn) (time.Duration, error) {
	return 0, errNoTCPInfo
}
