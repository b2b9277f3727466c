// Package content reads the links collection directory and turns every data file
// into a validated domain.Link or a domain.Rejection.
package content

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// extensions lists the data file formats of a collection directory.
var extensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

var (
	templateVar       = regexp.MustCompile(`\{\{[^}]+\}\}`)
	quotedTemplateVar = regexp.MustCompile(`"\{\{[^}]+\}\}"|'\{\{[^}]+\}\}'`)
	// a placeholder that is the whole plain scalar of a mapping value or list item
	scalarTemplateVar = regexp.MustCompile(`(?m)((?::|^[ \t]*-)[ \t]+)\{\{[^}]+\}\}([ \t]*(?:#[^\r\n]*)?\r?)$`)
)

// Record is one decoded data file, not yet validated.
type Record struct {
	ID       string         // file name without extension
	Path     string         // full path on disk
	Data     map[string]any // decoded mapping; nil for an empty file
	Checksum uint64         // xxhash64 of the raw file bytes
}

// FileError reports a data file that could not be read or decoded.
type FileError struct {
	ID   string
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *FileError) Unwrap() error { return e.Err }

// ErrDuplicateID is returned when two files share a name with different extensions.
var ErrDuplicateID = errors.New("duplicate entry id")

// Snapshot is the content of the directory at one point in time.
type Snapshot struct {
	Records []Record
	Failed  []*FileError

	// Checksum covers every file id and content; equal checksums mean nothing changed.
	Checksum uint64
}

// Err combines every file failure, or returns nil.
func (s *Snapshot) Err() error {
	var err error
	for _, fe := range s.Failed {
		err = multierr.Append(err, fe)
	}
	return err
}

// Loader reads the data files of a collection directory.
type Loader struct {
	dir string
}

// NewLoader creates a loader for dir.
func NewLoader(dir string) *Loader {
	return &Loader{
		dir: dir,
	}
}

// Dir returns the directory the loader reads.
func (l *Loader) Dir() string { return l.dir }

// Load reads every data file of the directory.
// Only a directory that cannot be listed is an error; broken files land in Snapshot.Failed.
func (l *Loader) Load() (*Snapshot, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read links directory: %w", err)
	}

	snap := &Snapshot{}
	seen := make(map[string]string, len(entries))
	digest := xxhash.New()

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || isIgnored(name) {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if !extensions[ext] {
			continue
		}

		id := strings.TrimSuffix(name, filepath.Ext(name))
		path := filepath.Join(l.dir, name)

		if other, dup := seen[id]; dup {
			snap.Failed = append(snap.Failed, &FileError{
				ID:   id,
				Path: path,
				Err:  fmt.Errorf("%w: also defined by %s", ErrDuplicateID, filepath.Base(other)),
			})
			continue
		}
		seen[id] = path

		rec, err := readRecord(id, path, ext)
		writeDigest(digest, id, rec.Checksum)
		if err != nil {
			snap.Failed = append(snap.Failed, &FileError{ID: id, Path: path, Err: err})
			continue
		}
		snap.Records = append(snap.Records, rec)
	}

	sort.Slice(snap.Records, func(i, j int) bool { return snap.Records[i].ID < snap.Records[j].ID })
	snap.Checksum = digest.Sum64()

	return snap, nil
}

// isIgnored skips hidden files and underscore-prefixed drafts.
func isIgnored(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// readRecord always sets Checksum when the file could be read, so a file that
// changes while staying broken still changes the directory checksum.
func readRecord(id, path, ext string) (Record, error) {
	rec := Record{ID: id, Path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		return rec, fmt.Errorf("failed to read file: %w", err)
	}
	rec.Checksum = xxhash.Sum64(raw)

	data, err := Decode(raw, ext)
	if err != nil {
		return rec, err
	}
	rec.Data = data

	return rec, nil
}

// Decode parses one data document into an untyped mapping. ext selects the
// format: ".json" is decoded as JSON with numbers kept as json.Number, anything
// else as YAML. Template placeholders ({{HOMEPAGE_VAR_...}}) are replaced by
// empty strings first.
func Decode(raw []byte, ext string) (map[string]any, error) {
	var data map[string]any
	if strings.EqualFold(ext, ".json") {
		// In JSON placeholders only ever sit inside strings.
		raw = templateVar.ReplaceAll(raw, nil)
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil, nil
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&data); err != nil {
			return nil, fmt.Errorf("failed to parse json data file: %w", err)
		}
		return data, nil
	}

	raw = stripTemplateVariables(raw)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse yaml data file: %w", err)
	}
	return data, nil
}

// stripTemplateVariables removes template variables from YAML.
// A placeholder standing for a whole value becomes an empty string; one inside
// a longer value is dropped, as in JSON.
// Example: href: {{HOMEPAGE_VAR_GRAFANA_URL}}      -> href: ""
//          href: "{{HOMEPAGE_VAR_GRAFANA_URL}}"    -> href: ""
//          href: https://{{HOMEPAGE_VAR_HOST}}/x   -> href: https:///x
func stripTemplateVariables(data []byte) []byte {
	data = quotedTemplateVar.ReplaceAll(data, []byte(`""`))
	data = scalarTemplateVar.ReplaceAll(data, []byte(`${1}""${2}`))
	return templateVar.ReplaceAll(data, nil)
}

func writeDigest(d *xxhash.Digest, id string, sum uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], sum)
	_, _ = d.WriteString(id)
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(buf[:])
}
