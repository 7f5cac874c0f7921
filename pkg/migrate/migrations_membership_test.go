package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestTeamUserMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_team_user.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS team_user",
		"CONSTRAINT uq_team_user UNIQUE (team_id, user_id)",
		"FOREIGN KEY (team_id) REFERENCES teams(id) ON DELETE CASCADE",
		"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
		"FOREIGN KEY (approved_by) REFERENCES users(id) ON DELETE SET NULL",
		"DROP TABLE IF EXISTS team_user",
	}
	for _, check := range checks {
		if !strings.Contains(content, check) {
			t.Fatalf("team_user migration missing %q", check)
		}
	}
}

func TestInvitationsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_user_invitations.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS user_invitations",
		"token VARCHAR(64) NOT NULL UNIQUE",
		"FOREIGN KEY (team_id) REFERENCES teams(id) ON DELETE CASCADE",
		"FOREIGN KEY (invited_by) REFERENCES users(id) ON DELETE CASCADE",
		"FOREIGN KEY (accepted_by) REFERENCES users(id) ON DELETE SET NULL",
	}
	for _, check := range checks {
		if !strings.Contains(content, check) {
			t.Fatalf("user_invitations migration missing %q", check)
		}
	}
}
