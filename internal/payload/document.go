// Package payload loads raw hydration documents and provides safe traversal
// over their irregular JSON shapes.
package payload

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/antonholmquist/jason"

	"github.com/aordonez-dev/unimarc-ingest/internal/errors"
	"github.com/aordonez-dev/unimarc-ingest/internal/logging"
)

// Document is one hydration payload plus the corpus key it was loaded under.
// The key is only used for diagnostics and for deterministic processing order.
type Document struct {
	Key  string
	Root *jason.Value
}

// Corpus is the set of documents for one pipeline run, sorted by key.
type Corpus []Document

// Load reads a corpus from path. A directory is read as one document per
// .json file; a regular file is expected to be a combined corpus with the
// documents nested under a top-level "datos" object.
func Load(path string) (Corpus, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.New(err).
			Component("payload").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// LoadFile reads a combined corpus file of the shape {"datos": {key: doc}}.
// A file that is not a JSON object with a "datos" object is a fatal error;
// an individual entry that is malformed is skipped with a diagnostic.
func LoadFile(path string) (Corpus, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(err).
			Component("payload").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	root, err := jason.NewObjectFromBytes(raw)
	if err != nil {
		return nil, errors.New(err).
			Component("payload").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Build()
	}

	datos, err := root.GetObject("datos")
	if err != nil {
		return nil, errors.Newf("corpus file %s has no top-level \"datos\" object", path).
			Component("payload").
			Category(errors.CategoryValidation).
			Build()
	}

	logger := logging.ForService("payload")
	corpus := make(Corpus, 0, len(datos.Map()))
	for key, value := range datos.Map() {
		if value == nil {
			logger.Warn("Skipping null corpus entry", "document", key)
			continue
		}
		corpus = append(corpus, Document{Key: key, Root: value})
	}
	sortCorpus(corpus)

	logger.Info("Loaded combined corpus file", "path", path, "documents", len(corpus))
	return corpus, nil
}

// LoadDir reads every .json file in dir as one document keyed by file name.
// Malformed files are skipped with a diagnostic; an unreadable directory is
// a fatal error.
func LoadDir(dir string) (Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.New(err).
			Component("payload").
			Category(errors.CategoryFileIO).
			Context("path", dir).
			Build()
	}

	logger := logging.ForService("payload")
	var corpus Corpus
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.Warn("Skipping unreadable document", "document", entry.Name(), "error", err)
			continue
		}
		value, err := jason.NewValueFromBytes(raw)
		if err != nil {
			logger.Warn("Skipping malformed document", "document", entry.Name(), "error", err)
			continue
		}
		corpus = append(corpus, Document{Key: entry.Name(), Root: value})
	}
	sortCorpus(corpus)

	if len(corpus) == 0 {
		return nil, errors.Newf("no JSON documents found in %s", dir).
			Component("payload").
			Category(errors.CategoryValidation).
			Build()
	}

	logger.Info("Loaded corpus directory", "path", dir, "documents", len(corpus))
	return corpus, nil
}

// sortCorpus orders documents by key so merge outcomes are reproducible
// across runs.
func sortCorpus(c Corpus) {
	sort.Slice(c, func(i, j int) bool { return c[i].Key < c[j].Key })
}
