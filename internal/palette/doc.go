// Package palette maps arbitrary RGB triples to the closest human-readable
// color name in a fixed reference table.
//
// # Reference Table
//
// A table is a sequence of headerless six-field rows:
//
//	label, name, hex, R, G, B
//
// where R, G and B are decimal integers in [0,255]. The hex column is kept
// for display and is not cross-checked against R/G/B. An embedded table of
// web color names is available through Default.
//
// # Lifecycle
//
// An Index is built once with Load, LoadCSV, LoadFile or Default and is
// read-only afterwards. There is no package-level table: whoever needs
// lookups owns an *Index and passes it around. Construction problems are
// reported as *ConfigError and are meant to abort startup.
//
// # Thread Safety
//
// Index methods never mutate the index and may be called concurrently.
package palette
