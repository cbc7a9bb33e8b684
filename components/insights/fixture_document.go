package insights

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/microcosm-cc/bluemonday"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const fixtureVersionV1 = "v1"

//go:embed schemas/fixture.schema.json
var fixtureSchemaJSON []byte

var (
	fixtureSchemaOnce sync.Once
	fixtureSchema     *jsonschema.Schema
	fixtureSchemaErr  error
	textPolicy        = bluemonday.StrictPolicy()
)

// FixtureDocument is the YAML representation of a Fixture.
type FixtureDocument struct {
	Version string `yaml:"version" json:"version"`
	Fixture `yaml:",inline"`
	Source  string `yaml:"-" json:"-"`
}

// ReadFixture loads and validates a fixture document from disk.
func ReadFixture(path string) (*FixtureDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("insights: open fixture %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeFixture(f)
	if err != nil {
		return nil, fmt.Errorf("insights: decode fixture %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeFixture reads a fixture document from any reader. The document is
// checked against the embedded JSON schema, stripped of markup and then
// checked against the domain invariants.
func DecodeFixture(r io.Reader) (*FixtureDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("insights: read fixture: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("insights: fixture is empty")
	}
	if err := validateFixtureSchema(data); err != nil {
		return nil, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var doc FixtureDocument
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("insights: parse fixture: %w", err)
	}
	if doc.Version == "" {
		doc.Version = fixtureVersionV1
	}
	if doc.Version != fixtureVersionV1 {
		return nil, fmt.Errorf("insights: unsupported fixture version %q", doc.Version)
	}
	doc.Fixture = sanitizeFixture(doc.Fixture)
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Store wraps the document in a StaticMetricsStore.
func (doc *FixtureDocument) Store() (*StaticMetricsStore, error) {
	if doc == nil {
		return nil, fmt.Errorf("insights: fixture document is nil")
	}
	return NewStaticMetricsStore(doc.Fixture)
}

// EncodeFixture writes the fixture as a YAML document.
func EncodeFixture(w io.Writer, fixture Fixture) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	doc := FixtureDocument{Version: fixtureVersionV1, Fixture: fixture}
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("insights: encode fixture: %w", err)
	}
	return encoder.Close()
}

func validateFixtureSchema(data []byte) error {
	schema, err := compiledFixtureSchema()
	if err != nil {
		return err
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("insights: parse fixture: %w", err)
	}
	normalized, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("insights: normalize fixture: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(normalized))
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return fmt.Errorf("insights: normalize fixture: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("insights: fixture failed schema validation: %w", err)
	}
	return nil
}

func compiledFixtureSchema() (*jsonschema.Schema, error) {
	fixtureSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		const name = "fixture.schema.json"
		if err := compiler.AddResource(name, bytes.NewReader(fixtureSchemaJSON)); err != nil {
			fixtureSchemaErr = fmt.Errorf("insights: load fixture schema: %w", err)
			return
		}
		fixtureSchema, fixtureSchemaErr = compiler.Compile(name)
		if fixtureSchemaErr != nil {
			fixtureSchemaErr = fmt.Errorf("insights: compile fixture schema: %w", fixtureSchemaErr)
		}
	})
	return fixtureSchema, fixtureSchemaErr
}

// sanitizeText strips markup, leaving plain text.
func sanitizeText(value string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(value)))
}

func sanitizeFixture(f Fixture) Fixture {
	out := cloneFixture(f)
	for i := range out.Stats {
		stat := &out.Stats[i]
		stat.Title = sanitizeText(stat.Title)
		stat.Value = sanitizeText(stat.Value)
		stat.Change = sanitizeText(stat.Change)
		stat.Description = sanitizeText(stat.Description)
	}
	for i := range out.Activities {
		entry := &out.Activities[i]
		entry.Action = sanitizeText(entry.Action)
		entry.Time = sanitizeText(entry.Time)
	}
	for i := range out.Revenue {
		out.Revenue[i].Period = sanitizeText(out.Revenue[i].Period)
	}
	for i := range out.Preferences {
		pref := &out.Preferences[i]
		pref.Label = sanitizeText(pref.Label)
		pref.Description = sanitizeText(pref.Description)
	}
	return out
}

// FixtureWatcher reloads a fixture document whenever it changes on disk.
type FixtureWatcher struct {
	path     string
	onReload func(*StaticMetricsStore)
	onError  func(error)
}

// NewFixtureWatcher builds a watcher for path. onReload receives every
// successfully decoded store; onError receives decode and watch failures.
func NewFixtureWatcher(path string, onReload func(*StaticMetricsStore), onError func(error)) *FixtureWatcher {
	if onError == nil {
		onError = func(error) {}
	}
	return &FixtureWatcher{path: path, onReload: onReload, onError: onError}
}

// Run blocks until ctx is cancelled. The parent directory is watched so
// editors that replace the file on save are still observed.
func (w *FixtureWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("insights: create fixture watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(w.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("insights: watch fixture %s: %w", w.path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.onError(fmt.Errorf("insights: fixture watcher: %w", err))
		}
	}
}

func (w *FixtureWatcher) reload() {
	doc, err := ReadFixture(w.path)
	if err != nil {
		w.onError(err)
		return
	}
	store, err := doc.Store()
	if err != nil {
		w.onError(err)
		return
	}
	if w.onReload != nil {
		w.onReload(store)
	}
}
