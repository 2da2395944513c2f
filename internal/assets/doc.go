// Package assets provides the page template, page styles and syntax
// highlighting theme CSS used to assemble standalone HTML pages.
//
// Loaders:
//
//	Loader (interface)
//	    ├── EmbeddedLoader - built-in styles and templates (go:embed)
//	    ├── DirLoader      - a user directory, confined with os.Root
//	    └── Resolver       - DirLoader first, EmbeddedLoader on not-found
//
// A custom directory mirrors the embedded layout:
//
//	{dir}/
//	├── styles/{name}.css
//	└── templates/{name}.html
//
// Theme CSS is generated from chroma's style registry and is not loaded
// from files.
package assets
