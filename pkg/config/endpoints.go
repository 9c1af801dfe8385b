package config

import (
	"fmt"
	"net"
	"strings"
)

const (
	// host alias the Android emulator uses for the development machine
	emulatorHostAlias = "10.0.2.2"
	guineaPigPath     = "guinea-pig"
	phishingUserinfo  = "foo:bar@"
)

func (l *loader) deriveEndpoints() error {
	c := l.cfg

	c.LocalAppiumPort = c.AppiumPort
	if c.Sauce {
		c.LocalAppiumPort = sauceTunnelPort
	}

	c.TestEndpoint = testEndpoint("localhost", c.LocalAppiumPort)
	c.GuineaTestEndpoint = c.TestEndpoint + guineaPigPath

	if c.RealDevice {
		c.LocalIP = l.localIP()
		if c.LocalIP == "" {
			l.logger.Warn("no external IPv4 interface found for real-device endpoints")
		}
		c.ChromeTestEndpoint = testEndpoint(c.LocalIP, c.LocalAppiumPort)
	} else {
		c.ChromeTestEndpoint = testEndpoint(emulatorHostAlias, c.LocalAppiumPort)
	}
	c.ChromeGuineaTestEndpoint = c.ChromeTestEndpoint + guineaPigPath
	c.PhishingEndpoint = strings.Replace(c.TestEndpoint, "http://", "http://"+phishingUserinfo, 1)
	return nil
}

func testEndpoint(host string, port int) string {
	return fmt.Sprintf("http://%s:%d/test/", host, port)
}

// LocalIPv4 returns the first non-loopback IPv4 address of an up interface,
// or "" when there is none.
func LocalIPv4() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		if ip := firstIPv4(addrs); ip != "" {
			return ip
		}
	}
	return ""
}

func firstIPv4(addrs []net.Addr) string {
	for _, addr := range addrs {
		var ip net.IP
		switch v := addr.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		if ip == nil || ip.IsLoopback() {
			continue
		}
		if ip4 := ip.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return ""
}
