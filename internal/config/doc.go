// Package config loads arbor's local settings.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use $XDG_CONFIG_HOME/arbor/config.toml
//  3. If the file doesn't exist, fall back to Defaults
//  4. ARBOR_API_URL, when set, overrides api_url either way
//
// # TOML Format
//
//	api_url = "https://script.example.com/macros/s/XXXX/exec"
//	language = "ja"
//	poll_seconds = 30
//	request_timeout_seconds = 10
//	asset_url_template = "https://drive.google.com/uc?export=view&id={id}"
//	image_protocol = "halfblocks"   # halfblocks, kitty, iterm2, sixel
//	image_width = 40
//	image_height = 20
//	log_file = "~/.local/state/arbor/arbor.log"
//
// Every field is optional. poll_seconds only applies until the backend's
// own configuration arrives.
//
// # Validation
//
// Load never validates, so commands that don't need a backend (demo,
// version) work without a config file. Commands that poll call Validate,
// which returns the package's sentinel errors for use with errors.Is.
package config
