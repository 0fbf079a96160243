// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_recording

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	unknownSubject  = "unknown"
	timestampLayout = "060102_150405"
	// bounds the suffix search in Unique
	maxCollisionSuffix = 1000
)

// FilenamePolicy names output files as <subject>_<yyMMdd_HHmmssSSS><ext>.
type FilenamePolicy struct {
	Extension string
}

func NewFilenamePolicy(extension string) FilenamePolicy {
	return FilenamePolicy{Extension: extension}
}

// Generate returns the file name for subject at now. An empty subject is
// recorded as "unknown"; path separators are replaced so the name always
// stays inside the recordings directory.
func (p FilenamePolicy) Generate(subjectIdentifier string, now time.Time) string {
	subject := sanitizeSubject(subjectIdentifier)
	timestamp := fmt.Sprintf("%s%03d", now.Format(timestampLayout), now.Nanosecond()/int(time.Millisecond))
	return subject + "_" + timestamp + p.Extension
}

// Unique joins the generated name to dir. If that file already exists a
// -1, -2, ... suffix is inserted before the extension.
func (p FilenamePolicy) Unique(dir, subjectIdentifier string, now time.Time) (string, error) {
	name := p.Generate(subjectIdentifier, now)
	path := filepath.Join(dir, name)
	if !exists(path) {
		return path, nil
	}
	stem := strings.TrimSuffix(name, p.Extension)
	for i := 1; i <= maxCollisionSuffix; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, p.Extension))
		if !exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free file name for %s in %s", name, dir)
}

func sanitizeSubject(subject string) string {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return unknownSubject
	}
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator || r == 0 {
			return '_'
		}
		return r
	}, subject)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, os.ErrNotExist)
}
