package njsast_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpokorny/njsast/pkg/njsast"
)

// TestPipelineEndToEnd exercises Parse -> Analyze -> Compress -> Print as a
// caller outside this module would, per SPEC_FULL.md's public facade.
func TestPipelineEndToEnd(t *testing.T) {
	log := njsast.NewLog("test.js")
	top, err := njsast.Parse("if (true) { console.log(1); } else { console.log(2); }", log, njsast.ParserOptions{})
	require.NoError(t, err)
	require.False(t, log.HasErrors())

	require.NoError(t, njsast.Analyze(top, log))
	require.NoError(t, njsast.Compress(top, njsast.AllPasses(10), log))

	out := njsast.Print(top, njsast.PrintOptions{})
	require.Contains(t, out, "console.log(1)")
	require.NotContains(t, out, "console.log(2)", "the else branch of an always-true condition should be eliminated")
}

func TestNewBundlerConstructsWithoutPanicking(t *testing.T) {
	log := njsast.NewLog("link-test")
	require.NotPanics(t, func() {
		njsast.NewBundler(nil, njsast.BundlerOptions{}, log, 0)
	})
}
