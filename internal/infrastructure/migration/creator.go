package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const (
	versionLayout = "20060102150405"
	upSuffix      = ".up.sql"
	downSuffix    = ".down.sql"
)

var skeletons = template.Must(template.New("skeletons").Parse(`
{{- define "up" -}}
-- {{.Name}}
{{- with .Description}}
-- {{.}}
{{- end}}

{{end -}}
{{- define "down" -}}
-- Rollback: {{.Name}}

{{end -}}
`))

// nonWord matches the runs that separate words in a migration name
var nonWord = regexp.MustCompile(`[\s_-]+`)

// MigrationFile is an up/down pair written by CreateMigration
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	UpPath      string
	DownPath    string
}

// CreateMigration writes an empty up/down pair named <timestamp>_<name>
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	return createAt(migrationsDir, name, description, time.Now().UTC())
}

func createAt(dir, name, description string, now time.Time) (*MigrationFile, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	version := now.Format(versionLayout)
	stem := filepath.Join(dir, version+"_"+slug)
	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		UpPath:      stem + upSuffix,
		DownPath:    stem + downSuffix,
	}

	if err := render(mf.UpPath, "up", mf); err != nil {
		return nil, err
	}
	if err := render(mf.DownPath, "down", mf); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, err
	}
	return mf, nil
}

// render writes the named skeleton to path, refusing to overwrite
func render(path, skeleton string, mf *MigrationFile) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return skeletons.ExecuteTemplate(f, skeleton, mf)
}

// sanitizeName lowercases name, drops anything but letters, digits and
// separators, and joins the remaining words with '_'
func sanitizeName(name string) string {
	kept := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '-', r == '_':
			return r
		}
		return -1
	}, strings.ToLower(name))
	return strings.Trim(nonWord.ReplaceAllString(kept, "_"), "_")
}

// ListMigrations returns the sorted stems of the up migrations in dir. A
// missing dir has none.
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var stems []string
	for _, entry := range entries {
		stem, ok := strings.CutSuffix(entry.Name(), upSuffix)
		if ok && entry.Type().IsRegular() {
			stems = append(stems, stem)
		}
	}
	slices.Sort(stems)
	return stems, nil
}

// PendingAfter keeps the migrations whose numeric version is above version
func PendingAfter(migrations []string, version uint) []string {
	pending := []string{}
	for _, name := range migrations {
		prefix, _, _ := strings.Cut(name, "_")
		if v, err := strconv.ParseUint(prefix, 10, 64); err == nil && uint(v) > version {
			pending = append(pending, name)
		}
	}
	return pending
}
