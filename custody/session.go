package custody

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const sessionFile = "fsc-custody-session"

// SaveHeaders persists the authenticated request headers captured from a
// browser session with the custody portal. The feed has no API key scheme,
// only session cookies, so the session file is the login artifact.
func SaveHeaders(raw string) error {
	sessionPath := filepath.Join(os.TempDir(), sessionFile)
	if err := os.WriteFile(sessionPath, []byte(raw), 0600); err != nil {
		return fmt.Errorf("cannot save custody session: %w", err)
	}
	return nil
}

// LoadHeaders reads back the session headers saved by SaveHeaders.
func LoadHeaders() (http.Header, error) {
	sessionPath := filepath.Join(os.TempDir(), sessionFile)
	headerData, err := os.ReadFile(sessionPath)
	if err != nil {
		return nil, fmt.Errorf("custody session not found. Please run 'fsc custody-login' first: %w", err)
	}

	headers := make(http.Header)
	scanner := bufio.NewScanner(strings.NewReader(string(headerData)))
	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.SplitN(line, ":", 2)
		if len(parts) == 2 {
			headers.Add(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
		}
	}
	return headers, nil
}
