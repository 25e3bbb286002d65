package linker_test

import (
	"path"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpokorny/njsast/internal/config"
	"github.com/mpokorny/njsast/internal/diag"
	"github.com/mpokorny/njsast/internal/linker"
)

// memHost is a minimal config.HostContext backed by an in-memory file map,
// resolving relative specifiers the way a flat-directory project would:
// "./b" from "/main.js" becomes "/b.js".
type memHost struct {
	files   map[string]string
	written map[string]string
}

func newMemHost(files map[string]string) *memHost {
	return &memHost{files: files, written: make(map[string]string)}
}

func (h *memHost) ReadContent(name string) (string, bool) {
	text, ok := h.files[name]
	return text, ok
}

func (h *memHost) GetPlainJsDependencies(name string) []string { return nil }

func (h *memHost) ResolveRequire(spec, fromFile string) (string, bool) {
	resolved := spec
	if strings.HasPrefix(spec, ".") {
		resolved = path.Join(path.Dir(fromFile), spec)
	}
	if !strings.HasSuffix(resolved, ".js") {
		resolved += ".js"
	}
	if _, ok := h.files[resolved]; !ok {
		return "", false
	}
	return resolved, true
}

func (h *memHost) GenerateBundleName(logicalName string) string {
	return logicalName + ".out.js"
}

func (h *memHost) JsHeaders(splitName string, needsImport bool) string {
	if needsImport {
		return "/* runtime: " + splitName + " */\n"
	}
	return ""
}

func (h *memHost) WriteBundle(name, content string) {
	h.written[name] = content
}

func newBundler(t *testing.T, host config.HostContext, entries map[string][]string) *linker.Bundler {
	t.Helper()
	opts := config.BundlerOptions{
		PartToMainFilesMap: entries,
		Output:             config.OutputOptions{Beautify: true},
	}
	return linker.NewBundler(host, opts, diag.NewLog("link-test"), 0)
}

// Rule 3: a require binding used only as x.prop, where the target doesn't
// need a whole-namespace object, inlines directly to the exported value and
// drops the require() declaration entirely.
func TestLinkInlinesPropertyAccessWithoutWholeExport(t *testing.T) {
	host := newMemHost(map[string]string{
		"/main.js": "var b = require(\"./b\");\nconsole.log(b.value);\n",
		"/b.js":    "export var value = 42;\n",
	})
	bundler := newBundler(t, host, map[string][]string{"main": {"/main.js"}})

	out, err := bundler.Link()
	require.NoError(t, err)
	require.Contains(t, out, "main.out.js")

	bundle := out["main.out.js"]
	require.NotContains(t, bundle, "require(")
	require.Contains(t, bundle, "value")
	require.NotContains(t, bundle, "__export_$_")
}

// Rule 1/4: a require binding used bare (not just as x.prop) forces a
// whole-namespace object to be synthesized for the target, and the binding
// is rewritten to alias it directly.
func TestLinkSynthesizesWholeExportForBareUsage(t *testing.T) {
	host := newMemHost(map[string]string{
		"/main.js": "var b = require(\"./b\");\nb.increment();\nconsole.log(b);\n",
		"/b.js":    "export function increment() {\n  return 1;\n}\n",
	})
	bundler := newBundler(t, host, map[string][]string{"main": {"/main.js"}})

	out, err := bundler.Link()
	require.NoError(t, err)

	bundle := out["main.out.js"]
	require.NotContains(t, bundle, "require(")
	require.Contains(t, bundle, "__export_$_")
}

// Collision resolution: two files that both declare a top-level `helper`
// binding must come out of the bundle with distinct names, and every
// reference to the displaced one must follow its rename.
func TestLinkRenamesCollidingTopLevelNames(t *testing.T) {
	host := newMemHost(map[string]string{
		"/main.js": "var a = require(\"./a\");\nvar b = require(\"./b\");\na.run();\nb.run();\n",
		"/a.js":    "function helper() {\n  return 1;\n}\nexport function run() {\n  return helper();\n}\n",
		"/b.js":    "function helper() {\n  return 2;\n}\nexport function run() {\n  return helper();\n}\n",
	})
	bundler := newBundler(t, host, map[string][]string{"main": {"/main.js"}})

	out, err := bundler.Link()
	require.NoError(t, err)

	bundle := out["main.out.js"]
	require.Equal(t, 2, strings.Count(bundle, "function helper"), "both declarations must survive under distinct names:\n%s", bundle)
}

// Collision resolution for a non-function binding: two files that both
// declare a top-level `var` name must come out of the bundle with the
// declaration site renamed in step with its own use site — a declaration
// left under its old name while its use sites follow the rename would
// reference an identifier nothing declares.
func TestLinkRenamesCollidingTopLevelVarDeclaration(t *testing.T) {
	host := newMemHost(map[string]string{
		"/main.js": "var a = require(\"./a\");\nvar b = require(\"./b\");\na.run();\nb.run();\n",
		"/a.js":    "var config = 111;\nexport function run() {\n  return config;\n}\n",
		"/b.js":    "var config = 222;\nexport function run() {\n  return config;\n}\n",
	})
	bundler := newBundler(t, host, map[string][]string{"main": {"/main.js"}})

	out, err := bundler.Link()
	require.NoError(t, err)

	bundle := out["main.out.js"]

	declRe := regexp.MustCompile(`var (\w+) = (111|222);`)
	decls := declRe.FindAllStringSubmatch(bundle, -1)
	require.Len(t, decls, 2, "both top-level declarations must survive, each under its own name:\n%s", bundle)
	require.NotEqual(t, decls[0][1], decls[1][1], "colliding declarations must be renamed to distinct identifiers:\n%s", bundle)

	for _, d := range decls {
		name := d[1]
		useRe := regexp.MustCompile(`return ` + regexp.QuoteMeta(name) + `;`)
		require.True(t, useRe.MatchString(bundle), "declaration %q's own identifier must be used by its own return statement, not left stale while only other references follow the rename:\n%s", name, bundle)
	}
}

// Rule 5: import() across a lazy split boundary becomes a call through the
// __import trampoline, and the lazy split's own bundle carries the runtime
// header that trampoline needs.
func TestLinkRewritesLazyImportAcrossSplits(t *testing.T) {
	host := newMemHost(map[string]string{
		"/main.js": "import(\"./lazy\").then(function (m) {\n  m.value;\n});\n",
		"/lazy.js": "export var value = 1;\n",
	})
	bundler := newBundler(t, host, map[string][]string{
		"main": {"/main.js"},
		"lazy": {"/lazy.js"},
	})

	out, err := bundler.Link()
	require.NoError(t, err)

	main := out["main.out.js"]
	require.Contains(t, main, "__import(")
	require.NotContains(t, main, "import(\"./lazy\")")

	lazy := out["lazy.out.js"]
	require.Contains(t, lazy, "runtime: lazy")
}
