package ui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// see https://specifications.freedesktop.org/icon-naming-spec/icon-naming-spec-latest.html
const (
	IconDialogError = "dialog-error"

	UrgencyCritical = "critical"

	notifyTimeout = 5 * time.Second
)

func NotifyError(title, text string) {
	NotifySend(UrgencyCritical, title, text, IconDialogError)
}

// NotifySend shows a desktop notification in the session of the user owning
// the current X display. Running as a system service there usually is none,
// in which case only a warning is logged.
func NotifySend(urgency, title, text, icon string) {
	display, exists := os.LookupEnv("DISPLAY")
	if !exists {
		Debug("Cannot send notification, missing env variable 'DISPLAY'")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	user, uid, err := findDisplayUser(ctx, display)
	if err != nil {
		Warning("Cannot send notification: %v", err)
		return
	}

	cmd := exec.CommandContext(ctx, "sudo", "-u", user,
		"DISPLAY="+display,
		"DBUS_SESSION_BUS_ADDRESS=unix:path=/run/user/"+uid+"/bus",
		"notify-send",
		"-a", "fan-control",
		"-u", urgency,
		"-i", icon,
		title, text,
	)
	if err := cmd.Run(); err != nil {
		Error("Error sending notification: %v", err)
	}
}

// findDisplayUser returns name and uid of the user logged in on display
func findDisplayUser(ctx context.Context, display string) (user string, uid string, err error) {
	output, err := exec.CommandContext(ctx, "who").Output()
	if err != nil {
		return "", "", fmt.Errorf("unable to list logged in users: %w", err)
	}
	user = parseDisplayUser(string(output), display)
	if len(user) <= 0 {
		return "", "", fmt.Errorf("no user logged in on display %s", display)
	}

	output, err = exec.CommandContext(ctx, "id", "-u", user).Output()
	if err != nil {
		return "", "", fmt.Errorf("unable to detect user id of %s: %w", user, err)
	}
	return user, strings.TrimSpace(string(output)), nil
}

// parseDisplayUser picks the user of the first line of `who` output mentioning display
func parseDisplayUser(who string, display string) string {
	for _, line := range strings.Split(who, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && strings.Contains(line, "("+display+")") {
			return fields[0]
		}
	}
	return ""
}
