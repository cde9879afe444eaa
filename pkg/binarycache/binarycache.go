// Package binarycache implements the "Consumed: Binary cache" interface
// from spec.md §6: taggedDecodeOrLoad(path, build) — decode a cached value
// if its schema tag matches, otherwise build it and persist the tagged
// result atomically.
package binarycache

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"stackline.dev/spm/pkg/utils"
)

// CurrentTag is bumped whenever the in-memory schema of a cached value
// changes; a cache written under an older tag is treated as a miss.
const CurrentTag = "spm-cache-v1"

type envelope struct {
	Tag     string
	Payload []byte
}

// TaggedDecodeOrLoad decodes the cache at path if present and tagged with
// tag; otherwise it calls build, persists the tagged result, and returns
// it. Decode errors from a present-but-unreadable or mismatched-tag cache
// are treated as a miss and trigger a rebuild — they are never surfaced to
// the caller, per spec.md §7 ("falls back to rebuild on any decoding
// failure").
func TaggedDecodeOrLoad[T any](path string, tag string, build func() (T, error)) (T, error) {
	if v, ok := tryDecode[T](path, tag); ok {
		return v, nil
	}

	v, err := build()
	if err != nil {
		var zero T
		return zero, err
	}

	if err := store(path, tag, v); err != nil {
		var zero T
		return zero, fmt.Errorf("binarycache: failed to persist cache at %s: %w", path, err)
	}
	return v, nil
}

func tryDecode[T any](path, tag string) (T, bool) {
	var zero T
	raw, err := os.ReadFile(path)
	if err != nil {
		return zero, false
	}

	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&env); err != nil {
		return zero, false
	}
	if env.Tag != tag {
		return zero, false
	}

	var v T
	if err := gob.NewDecoder(bytes.NewReader(env.Payload)).Decode(&v); err != nil {
		return zero, false
	}
	return v, true
}

func store[T any](path, tag string, v T) error {
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(v); err != nil {
		return err
	}

	var out bytes.Buffer
	if err := gob.NewEncoder(&out).Encode(envelope{Tag: tag, Payload: payload.Bytes()}); err != nil {
		return err
	}

	return utils.AtomicWriteFile(path, out.Bytes(), 0o644)
}
