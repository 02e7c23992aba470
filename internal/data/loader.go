package data

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/suderio/bestiary/internal/engine"
	"github.com/suderio/bestiary/internal/log"
)

// Loader reads creature documents from a fallback hierarchy of data
// directories. Earlier directories win.
type Loader struct {
	dataDirs []string
}

// NewLoader initializes a new Data Loader with the given data directory fallback hierarchy
func NewLoader(dataDirs []string) *Loader {
	return &Loader{
		dataDirs: dataDirs,
	}
}

// LoadCreature finds creatures/<slug>.yaml in the first directory holding it.
func (l *Loader) LoadCreature(name string) (*Creature, error) {
	ref := filepath.Join("creatures", Slug(name)+".yaml")
	for _, dir := range l.dataDirs {
		path := filepath.Join(dir, ref)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFile(path)
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrCreatureNotFound, ref, strings.Join(l.dataDirs, ", "))
}

// List returns the slugs of every creature in the data directories, sorted
// and without duplicates.
func (l *Loader) List() ([]string, error) {
	seen := map[string]bool{}
	for _, dir := range l.dataDirs {
		entries, err := os.ReadDir(filepath.Join(dir, "creatures"))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if slug, ok := strings.CutSuffix(e.Name(), ".yaml"); ok && !e.IsDir() {
				seen[slug] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for slug := range seen {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out, nil
}

// LoadFile decodes and validates a single creature document. Its includes
// are resolved relative to the directory holding it.
func LoadFile(path string) (*Creature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	path = filepath.Clean(path)
	c, err := decode(f, filepath.Dir(path), []string{path})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.WithOperation(log.WithComponent("data"), "load").Debug("creature loaded", "path", path, "name", c.Name)
	return c, nil
}

// Decode reads one creature document from r and validates it. Includes are
// resolved relative to the working directory.
func Decode(r io.Reader) (*Creature, error) {
	return decode(r, ".", nil)
}

func decode(r io.Reader, dir string, stack []string) (*Creature, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var c Creature
	if err := c.merge(b, dir, stack); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// merge applies the includes of document b, then b itself. Scalars decoded
// later replace earlier ones; lists are appended.
func (c *Creature) merge(b []byte, dir string, stack []string) error {
	var head struct {
		Include []Include `yaml:"include"`
	}
	if err := yaml.Unmarshal(b, &head); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataFormat, err)
	}
	for _, inc := range head.Include {
		if err := c.include(inc, dir, stack); err != nil {
			return fmt.Errorf("%w %s: %w", ErrInclude, inc.File, err)
		}
	}

	err := c.appendLists(func() error {
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		return dec.Decode(c)
	})
	c.Include = nil
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataFormat, err)
	}
	return nil
}

func (c *Creature) include(inc Include, dir string, stack []string) error {
	path := inc.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	path = filepath.Clean(path)
	if slices.Contains(stack, path) {
		return ErrIncludeCycle
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := engine.Inclusion(string(src), engine.MapResolver(inc.Parameters), engine.WithSourceName(inc.File))
	if err != nil {
		return err
	}
	log.WithOperation(log.WithComponent("data"), "include").Debug("included", "path", path, "parameters", len(inc.Parameters))
	return c.merge([]byte(out), filepath.Dir(path), append(slices.Clip(stack), path))
}

// appendLists runs decode with every list emptied and then puts the entries
// held before in front of the decoded ones.
func (c *Creature) appendLists(decode func() error) error {
	features := []*[]Feature{&c.Features, &c.Actions, &c.Reactions}
	strs := []*[]string{&c.Saves, &c.Skills, &c.Senses, &c.Languages, &c.Expect}

	prevFeatures := make([][]Feature, len(features))
	for i, p := range features {
		prevFeatures[i], *p = *p, nil
	}
	prevStrs := make([][]string, len(strs))
	for i, p := range strs {
		prevStrs[i], *p = *p, nil
	}

	err := decode()

	for i, p := range features {
		*p = append(prevFeatures[i], *p...)
	}
	for i, p := range strs {
		*p = append(prevStrs[i], *p...)
	}
	return err
}

// Encode writes c as YAML with two-space indentation.
func Encode(w io.Writer, c *Creature) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
