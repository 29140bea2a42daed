package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kelora-dev/kelora/internal/model"
)

// syslogPattern matches BSD syslog (RFC 3164):
// <priority>Mmm dd HH:MM:SS hostname process[pid]: message
// The priority bracket is mandatory. Anything after the colon, including
// unexpected trailing text, belongs to the message.
var syslogPattern = regexp.MustCompile(
	`^<(?P<priority>\d{1,3})>(?P<timestamp>[A-Z][a-z]{2}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})\s+(?P<hostname>\S+)\s+(?P<process>[^:\[\s]+)(?:\[(?P<pid>\d+)\])?:\s*(?P<message>.*)$`)

// severityLevels maps the 3-bit syslog severity onto level names.
var severityLevels = [8]string{
	"EMERGENCY", "ALERT", "CRITICAL", "ERROR",
	"WARNING", "NOTICE", "INFO", "DEBUG",
}

// Syslog parses RFC 3164-style lines. The wire format omits the year, so the
// derived timestamp assumes the current year of the timeparse clock.
type Syslog struct{}

// Name returns the format tag.
func (Syslog) Name() string { return "syslog" }

// Parse decodes one syslog line.
func (Syslog) Parse(line string) (*model.Event, error) {
	if !strings.HasPrefix(line, "<") {
		return nil, fmt.Errorf("missing priority bracket")
	}
	m := syslogPattern.FindStringSubmatch(line)
	if m == nil {
		return nil, fmt.Errorf("malformed syslog line")
	}

	groups := make(map[string]string, 6)
	for i, name := range syslogPattern.SubexpNames() {
		if name != "" {
			groups[name] = m[i]
		}
	}

	pri, err := strconv.ParseInt(groups["priority"], 10, 64)
	if err != nil || pri > 191 {
		return nil, fmt.Errorf("invalid priority %q", groups["priority"])
	}
	facility := pri >> 3
	severity := pri & 7

	ev := model.NewEvent()
	ev.Set("priority", model.Int(pri))
	ev.Set("facility", model.Int(facility))
	ev.Set("severity", model.Int(severity))
	ev.Set("level", model.String(severityLevels[severity]))
	ev.Set("timestamp", model.String(groups["timestamp"]))
	ev.Set("hostname", model.String(groups["hostname"]))
	ev.Set("process", model.String(groups["process"]))
	if pidStr := groups["pid"]; pidStr != "" {
		pid, _ := strconv.ParseInt(pidStr, 10, 64)
		ev.Set("pid", model.Int(pid))
	}
	ev.Set("message", model.String(groups["message"]))

	ev.DetectCore()
	return ev, nil
}
