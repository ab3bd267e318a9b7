package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const migrationTemplate = `-- {{.Name}} ({{.Direction}}, {{.Dialect}})
-- Created: {{.Timestamp}}

`

// MigrationFile is one created version across all dialects
type MigrationFile struct {
	Version int
	Name    string
	Paths   []string
}

// CreateMigration writes an empty up/down pair with the next sequential
// version into every dialect directory under root.
func CreateMigration(root, name string) (*MigrationFile, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}

	next := 1
	for _, dialect := range Dialects {
		versions, err := ListMigrations(Dir(root, dialect))
		if err != nil {
			return nil, err
		}
		if n := len(versions); n > 0 {
			if v := versionOf(versions[n-1]); v >= next {
				next = v + 1
			}
		}
	}

	mf := &MigrationFile{Version: next, Name: base}
	tmpl := template.Must(template.New("migration").Parse(migrationTemplate))
	stamp := time.Now().Format(time.RFC3339)

	for _, dialect := range Dialects {
		dir := Dir(root, dialect)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create migrations directory: %w", err)
		}
		for _, direction := range []string{"up", "down"} {
			path := filepath.Join(dir, fmt.Sprintf("%06d_%s.%s.sql", next, base, direction))
			f, err := os.Create(path)
			if err != nil {
				return nil, fmt.Errorf("failed to create %s: %w", path, err)
			}
			err = tmpl.Execute(f, map[string]string{
				"Name": base, "Direction": direction, "Dialect": dialect, "Timestamp": stamp,
			})
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", path, err)
			}
			mf.Paths = append(mf.Paths, path)
		}
	}
	return mf, nil
}

// ListMigrations returns the sorted base names of the .up.sql files in dir
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(e.Name(), ".up.sql"); ok {
			out = append(out, base)
		}
	}
	sort.Slice(out, func(i, j int) bool { return versionOf(out[i]) < versionOf(out[j]) })
	return out, nil
}

func versionOf(base string) int {
	prefix, _, _ := strings.Cut(base, "_")
	v, err := strconv.Atoi(prefix)
	if err != nil {
		return 0
	}
	return v
}

// sanitizeName lower-cases name and joins word runs with underscores
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			if s := b.String(); s != "" && !strings.HasSuffix(s, "_") {
				b.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
