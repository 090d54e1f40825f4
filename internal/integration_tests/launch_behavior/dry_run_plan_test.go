package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spotstack/launchgo/internal/testutil"
)

// A dry run of the built-in driver description prints the full resolved
// plan: arguments, both process records, and the delegated image
// publishers description.
func TestDryRun_SpotDriverPlan(t *testing.T) {
	t.Parallel()

	tree := testutil.NewInstallTree(t)
	tree.WriteSpotPackages(t)
	configPath := tree.WriteShare(t, "spot_driver", "config/driver.yaml", testutil.DriverConfig)

	result := testutil.RunApp(t, tree, "spot_driver", map[string]string{"config_file": configPath})
	require.NoError(t, result.Err)

	require.Contains(t, result.Output, `config_file = "`+configPath+`"`)
	require.Contains(t, result.Output, `publish_rgb = "true"`)
	require.Contains(t, result.Output, `publish_depth = "true"`)

	require.Contains(t, result.Output, "process: spot_driver/spot_ros2 (node spot_ros2)")
	require.Contains(t, result.Output, "params-file: "+configPath)

	require.Contains(t, result.Output, "process: robot_state_publisher/robot_state_publisher")
	// The expanded robot description is summarized, never dumped inline.
	require.Contains(t, result.Output, "param robot_description = <")
	require.NotContains(t, result.Output, "xacro:")

	require.Contains(t, result.Output, "include: ")
	require.Contains(t, result.Output, "spot_image_publishers.launch.hcl")
	require.Contains(t, result.Output, "process: spot_driver/spot_image_publisher")
}

// The declaration default wins over the inline default carried at the
// include site, so depth_registered publishing resolves to off.
func TestDryRun_DepthRegisteredDefaultsOff(t *testing.T) {
	t.Parallel()

	tree := testutil.NewInstallTree(t)
	tree.WriteSpotPackages(t)
	configPath := tree.WriteShare(t, "spot_driver", "config/driver.yaml", testutil.DriverConfig)

	result := testutil.RunApp(t, tree, "spot_driver", map[string]string{"config_file": configPath})
	require.NoError(t, result.Err)

	require.Contains(t, result.Output, `publish_depth_registered = "false"`)
	require.NotContains(t, result.Output, `publish_depth_registered = "true"`)
}
