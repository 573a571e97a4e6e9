// Package internal contains the core implementation packages for docsite.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - catalog: Loading and validating the page catalog (JSON, YAML, TOML)
//   - renderer: Turning a catalog page into complete HTML documents
//   - build: Path resolution, change detection, directory-safe writes and
//     the concurrent generator that ties them together
//   - config: Configuration management with validation
//   - errors: Structured errors and per-page error collection
//   - logging: Context-aware structured logging
//   - types: The page model shared by every package
//   - version: Build metadata
//
// # Data Flow
//
// The catalog yields pages. The generator hands each page to the renderer,
// which returns render targets. Every target is resolved to a file under the
// docs root, compared against what is already there and written only when
// its content changed. A failing page is recorded and the run continues; a
// directory that cannot be created stops it.
//
// # Testing Strategy
//
//   - Unit tests run against in-memory and fault-injecting afero filesystems
//   - Generated documents are checked by parsing them with x/net/html
//   - Property tests (build tag "property") cover path resolution and
//     idempotence
//
// For detailed documentation, see the individual package documentation.
package internal
