// Package cache memoizes a file's extracted-import results keyed by the
// content hash of its source bytes, so re-analyzing an unchanged file
// skips tree-sitter parsing entirely. Grounded on the teacher's upload
// pipeline (internal/api/handlers_upload.go), which streams zstd-encoded
// payloads via github.com/klauspost/compress/zstd; the envelope format
// is adapted here to a protobuf structpb.Struct (from
// google.golang.org/protobuf/types/known/structpb, the same codec
// family the scip backend loader.go decodes with proto.Unmarshal)
// rather than hand-authoring a bespoke .pb.go message.
package cache

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Entry is a single cached import-extraction result for one source file.
type Entry struct {
	FilePath string
	Imports  []ImportRecord
}

// ImportRecord is the cached, JSON-friendly shape of a RawImport —
// decoupled from importscan.RawImport so the cache format doesn't churn
// every time the in-memory extraction type gains a field.
type ImportRecord struct {
	RawPath    string `json:"raw_path"`
	Line       int    `json:"line"`
	Kind       int    `json:"kind"`
	Confidence int    `json:"confidence"`
}

// Store is a content-hash-keyed parse cache rooted at a directory,
// typically <project root>/.untangle/cache.
type Store struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Open creates (if needed) and returns a Store rooted at dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &Store{dir: dir, encoder: enc, decoder: dec}, nil
}

// Close releases the Store's zstd encoder/decoder resources.
func (s *Store) Close() {
	s.encoder.Close()
	s.decoder.Close()
}

// ContentKey returns the cache key for a file's content: the hex-encoded
// blake2b-256 hash of source, so an unchanged file always maps to the
// same key regardless of its path.
func ContentKey(source []byte) (string, error) {
	sum := blake2b.Sum256(source)
	return hex.EncodeToString(sum[:]), nil
}

func (s *Store) pathFor(key string) string {
	return filepath.Join(s.dir, key+".zst")
}

// Get loads a cached Entry for key, returning (nil, false) on a miss
// (including a corrupt or unreadable cache file — a cache miss just
// costs a re-parse, never a fatal error).
func (s *Store) Get(key string) (*Entry, bool) {
	raw, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		return nil, false
	}
	decompressed, err := s.decoder.DecodeAll(raw, nil)
	if err != nil {
		return nil, false
	}

	var st structpb.Struct
	if err := proto.Unmarshal(decompressed, &st); err != nil {
		return nil, false
	}
	entry, ok := structToEntry(&st)
	if !ok {
		return nil, false
	}
	return entry, true
}

// Put stores entry under key, overwriting any existing cache file.
func (s *Store) Put(key string, entry Entry) error {
	st, err := entryToStruct(entry)
	if err != nil {
		return err
	}
	raw, err := proto.Marshal(st)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	w := s.encoder
	w.Reset(&buf)
	if _, err := w.Write(raw); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return os.WriteFile(s.pathFor(key), buf.Bytes(), 0o644)
}

func entryToStruct(entry Entry) (*structpb.Struct, error) {
	imports := make([]interface{}, 0, len(entry.Imports))
	for _, ri := range entry.Imports {
		imports = append(imports, map[string]interface{}{
			"raw_path":   ri.RawPath,
			"line":       float64(ri.Line),
			"kind":       float64(ri.Kind),
			"confidence": float64(ri.Confidence),
		})
	}
	return structpb.NewStruct(map[string]interface{}{
		"file_path": entry.FilePath,
		"imports":   imports,
	})
}

func structToEntry(st *structpb.Struct) (*Entry, bool) {
	fields := st.GetFields()
	filePath := fields["file_path"].GetStringValue()
	importsList := fields["imports"].GetListValue()
	if importsList == nil {
		return &Entry{FilePath: filePath}, true
	}

	records := make([]ImportRecord, 0, len(importsList.GetValues()))
	for _, v := range importsList.GetValues() {
		m := v.GetStructValue().GetFields()
		records = append(records, ImportRecord{
			RawPath:    m["raw_path"].GetStringValue(),
			Line:       int(m["line"].GetNumberValue()),
			Kind:       int(m["kind"].GetNumberValue()),
			Confidence: int(m["confidence"].GetNumberValue()),
		})
	}
	return &Entry{FilePath: filePath, Imports: records}, true
}
