package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitStatementsRespectsQuotedSemicolons(t *testing.T) {
	in := `insert into students(email) values ('a;b@example.edu');
create table x (id int);`
	stmts := splitStatements(in)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %#v", len(stmts), stmts)
	}
	if want := "'a;b@example.edu'"; !strings.Contains(stmts[0], want) {
		t.Fatalf("quoted semicolon split the statement: %q", stmts[0])
	}
}

func TestCollectScriptsOrdersLexically(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_add.up.sql", "0001_init.up.sql", "0001_init.down.sql", "readme.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("select 1;"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	scripts, err := collectScripts(dir, ".up.sql")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(scripts) != 2 {
		t.Fatalf("expected 2 up scripts, got %d", len(scripts))
	}
	if scripts[0].name != "0001_init.up.sql" || scripts[1].name != "0002_add.up.sql" {
		t.Fatalf("wrong order: %v", scripts)
	}
}

func TestCollectScriptsMissingDir(t *testing.T) {
	scripts, err := collectScripts(filepath.Join(t.TempDir(), "absent"), ".sql")
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if len(scripts) != 0 {
		t.Fatalf("expected no scripts, got %d", len(scripts))
	}
}
