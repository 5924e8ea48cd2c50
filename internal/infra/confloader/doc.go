// Package confloader loads layered configuration with koanf.
//
// Layers, highest priority first:
//
//  1. Overrides, usually command-line flags (WithOverrides)
//  2. Environment variables (CHAINMAP_ prefix, CHAINMAP_MAP_BUCKETS -> map.buckets)
//  3. YAML configuration file (WithConfigFile)
//  4. Values already present in the target struct
//
// Origin reports which layer set a key. A Watcher reports writes to the
// configuration file so long-running commands can Reload.
package confloader
