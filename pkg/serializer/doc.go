// Copyright (c) 2025, Rackpulse Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package serializer provides encoding of snapshot data in multiple formats.
//
// # Overview
//
// The serializer package handles conversion between snapshot data structures
// and various output formats including JSON, YAML, and human-readable tables.
//
// # Supported Formats
//
// JSON:
//   - Machine-parseable, compact representation
//   - Suitable for API responses and programmatic consumption
//   - Standard encoding/json package
//
// YAML:
//   - Human-readable with preserved structure
//   - Suitable for configuration files and version control
//   - gopkg.in/yaml.v3 package
//
// Table:
//   - Flattened key/value representation
//   - Suitable for terminal/console viewing
//   - Write-only (no deserialization support)
//
// # Usage
//
// Write to stdout (YAML):
//
//	w := serializer.NewStdoutWriter(serializer.FormatYAML)
//	defer w.Close()
//
//	data := map[string]any{"version": "1.0.0", "status": "ok"}
//	if err := w.Serialize(ctx, data); err != nil {
//	    log.Fatal(err)
//	}
//
// Write to a file, falling back to stdout on error:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatJSON, "snapshot.json")
//	if err := w.Serialize(ctx, data); err != nil {
//	    log.Fatal(err)
//	}
//
// For HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, data)
//
// # Resource Management
//
// Always close writers that manage files. Stdout writers don't require
// closing but Close() is safe to call.
//
// # Integration
//
// Used throughout the daemon for data I/O:
//   - pkg/cli - command output formatting
//   - pkg/server - HTTP response encoding
package serializer
