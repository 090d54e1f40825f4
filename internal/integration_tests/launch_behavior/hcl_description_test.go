package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spotstack/launchgo/internal/testutil"
)

// A .launch.hcl path on the command line is loaded directly instead of
// going through the built-in registry.
func TestLaunchFileAsDescription(t *testing.T) {
	t.Parallel()

	tree := testutil.NewInstallTree(t)
	path := tree.WriteShare(t, "spot_driver", "launch/spot_image_publishers.launch.hcl", testutil.ImagePublishersLaunch)

	result := testutil.RunApp(t, tree, path, map[string]string{"publish_depth": "false"})
	require.NoError(t, result.Err)

	require.Contains(t, result.Output, "process: spot_driver/spot_image_publisher")
	require.Contains(t, result.Output, `param publish_rgb = "true"`)
	require.Contains(t, result.Output, `param publish_depth = "false"`)
}
