package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

// minFreeUploads is how many maximum-size uploads must fit on the media volume.
const minFreeUploads = 10

const checkTimeout = 5 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies that the filesystem holding path has at least min
// bytes available to unprivileged users.
func CheckFreeSpace(name, path string, min int64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s free", humanize.IBytes(free))
	if min > 0 && free < uint64(min) {
		return Result{Name: name, Detail: fmt.Sprintf("%s, need %s", detail, humanize.IBytes(uint64(min)))}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckWebhook verifies the Discord webhook URL is set and answers a GET,
// which Discord serves without posting a message.
func CheckWebhook(ctx context.Context, webhookURL string) Result {
	const name = "Discord webhook"

	webhookURL = strings.TrimSpace(webhookURL)
	if webhookURL == "" {
		return Result{Name: name, Detail: "not configured (set relay.webhook_url or DISCORD_WEBHOOK_URL)"}
	}
	status, err := probe(ctx, webhookURL)
	if err != nil {
		return Result{Name: name, Detail: summarizeProbeError(err)}
	}
	switch {
	case status == http.StatusOK:
		return Result{Name: name, Passed: true, Detail: "Reachable"}
	case status == http.StatusUnauthorized || status == http.StatusNotFound:
		return Result{Name: name, Detail: fmt.Sprintf("webhook rejected (%d), check the token", status)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("unexpected status (%d)", status)}
	}
}

// CheckStorageOrigin verifies the remote storage service answers /health.
func CheckStorageOrigin(ctx context.Context, origin string) Result {
	const name = "Storage origin"

	base := strings.TrimRight(strings.TrimSpace(origin), "/")
	if base == "" {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	status, err := probe(ctx, base+"/health")
	if err != nil {
		return Result{Name: name, Detail: summarizeProbeError(err)}
	}
	if status != http.StatusOK {
		return Result{Name: name, Detail: fmt.Sprintf("%s/health returned %d", base, status)}
	}
	return Result{Name: name, Passed: true, Detail: base}
}

func probe(ctx context.Context, target string) (int, error) {
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	client := &http.Client{Timeout: checkTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func summarizeProbeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (unreachable)"
	}
	return err.Error()
}
