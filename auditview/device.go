package auditview

import (
	"strings"

	"github.com/buger/jsonparser"
)

const (
	// UnknownDevice is shown when a record carries no device information.
	UnknownDevice = "Unknown device"

	// UnknownIP is shown for an empty or non-string IP address.
	UnknownIP = "Unknown IP"

	deviceSeparator  = " • "
	ipv4MappedPrefix = "::ffff:"
)

// DescribeDevice summarises the client that produced r, e.g.
// "iPhone 14 • iOS 17 • Safari".
func DescribeDevice(r *Record) string {
	if r == nil {
		return UnknownDevice
	}

	var parts []string
	for _, v := range []JSONValue{r.DeviceModel, r.OS, r.Browser} {
		if s := knownString(v); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, deviceSeparator)
	}

	if body, ok := r.RequestBody.object(); ok {
		if name, err := jsonparser.GetString(body, "device_name"); err == nil {
			if name = strings.TrimSpace(name); name != "" {
				return name
			}
		}
	}

	if s, ok := r.DeviceType.AsString(); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}

	return UnknownDevice
}

// knownString returns v trimmed when it is a string other than "Unknown".
func knownString(v JSONValue) string {
	s, ok := v.AsString()
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "Unknown" {
		return ""
	}
	return s
}

// SanitizeIPAddress is SanitizeIP for a raw record field.
func SanitizeIPAddress(v JSONValue) string {
	s, ok := v.AsString()
	if !ok {
		return UnknownIP
	}
	return SanitizeIP(s)
}

// SanitizeIP strips the IPv4-mapped IPv6 prefix, so "::ffff:10.0.0.5"
// becomes "10.0.0.5".
func SanitizeIP(ip string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return UnknownIP
	}
	if len(ip) > len(ipv4MappedPrefix) && strings.EqualFold(ip[:len(ipv4MappedPrefix)], ipv4MappedPrefix) {
		return ip[len(ipv4MappedPrefix):]
	}
	return ip
}
