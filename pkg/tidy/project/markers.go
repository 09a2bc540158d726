package project

// Type identifies the ecosystem a project root belongs to.
type Type string

// Known project types, in detection priority order.
const (
	TypeGo     Type = "go"
	TypeNode   Type = "node"
	TypeRust   Type = "rust"
	TypePython Type = "python"
	TypeJava   Type = "java"
	TypeRuby   Type = "ruby"
	TypePHP    Type = "php"
	TypeDotnet Type = "dotnet"
	TypeCMake  Type = "cmake"

	// TypeMixed is reported when only version control or lockfile
	// signals are present and no single ecosystem can be inferred.
	TypeMixed Type = "mixed"

	// TypeNone means the directory is not a project root.
	TypeNone Type = ""
)

// vcsMarkers are version-control directories. Any of these is a strong
// signal on its own.
var vcsMarkers = map[string]struct{}{
	".git": {},
	".hg":  {},
	".svn": {},
}

// primaryManifests map a build/package manifest filename to its ecosystem.
// These are strong signals and determine the project type.
var primaryManifests = map[string]Type{
	"go.mod":         TypeGo,
	"package.json":   TypeNode,
	"Cargo.toml":     TypeRust,
	"pyproject.toml": TypePython,
	"setup.py":       TypePython,
	"pom.xml":        TypeJava,
	"build.gradle":   TypeJava,
	"Gemfile":        TypeRuby,
	"composer.json":  TypePHP,
	"CMakeLists.txt": TypeCMake,
}

// typePriority orders ecosystems for tie-breaking when a directory
// carries manifests from more than one.
var typePriority = []Type{
	TypeGo, TypeNode, TypeRust, TypePython, TypeJava, TypeRuby, TypePHP, TypeDotnet, TypeCMake,
}

// secondaryMarkers are weaker signals: lockfiles and auxiliary build files.
// They count toward confidence but do not determine project type by
// themselves.
var secondaryMarkers = map[string]struct{}{
	"go.sum":            {},
	"package-lock.json": {},
	"yarn.lock":         {},
	"pnpm-lock.yaml":    {},
	"Cargo.lock":        {},
	"poetry.lock":       {},
	"Pipfile":           {},
	"Pipfile.lock":      {},
	"requirements.txt":  {},
	"Gemfile.lock":      {},
	"composer.lock":     {},
	"Makefile":          {},
	"tsconfig.json":     {},
	".gitignore":        {},
}

// GeneratedDirs is the denylist of build/dependency output folder names.
// These directories are never descended into and never reorganized
// item by item.
var GeneratedDirs = map[string]struct{}{
	"node_modules": {},
	"dist":         {},
	"build":        {},
	"target":       {},
	"out":          {},
	"vendor":       {},
	"bin":          {},
	"obj":          {},
	"coverage":     {},
	"__pycache__":  {},
	".venv":        {},
	"venv":         {},
	".next":        {},
	".nuxt":        {},
	".gradle":      {},
	".tox":         {},
	".pytest_cache": {},
}

// IsGeneratedDir reports whether name is on the generated-folder denylist.
func IsGeneratedDir(name string) bool {
	_, ok := GeneratedDirs[name]
	return ok
}

// IsVCSDir reports whether name is a version-control directory.
func IsVCSDir(name string) bool {
	_, ok := vcsMarkers[name]
	return ok
}
