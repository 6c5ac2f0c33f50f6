//go:build blackbox

package blackbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func contains(s, sub string) bool { return strings.Contains(s, sub) }

// writeConfig writes a config using the given storage type inside dir and
// returns its path. bcrypt runs at its minimum cost to keep tests fast.
func writeConfig(t *testing.T, dir, storage string) string {
	t.Helper()

	path := filepath.Join(dir, "tradebook-config.yaml")
	body := fmt.Sprintf(`storage:
  type: %s
  db_path: %s
  file_path: %s
log:
  level: error
  format: text
auth:
  bcrypt_cost: 4
`, storage, filepath.Join(dir, "tradebook.sqlite"), filepath.Join(dir, "tradebook.yaml"))

	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
