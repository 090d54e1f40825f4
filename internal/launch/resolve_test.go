package launch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func strPtr(s string) *string { return &s }

func TestResolve_MissingRequiredArgumentFailsBeforeProcesses(t *testing.T) {
	t.Parallel()

	desc := Description{
		&Node{Package: "spot_driver", Executable: "spot_ros2", Parameters: []ParameterSource{
			ParameterFile{Path: Config("config_file")},
		}},
		&DeclareArgument{Name: "config_file", Description: "required"},
	}

	plan, err := Resolve(context.Background(), desc, nil, nil)
	require.Error(t, err)
	require.Nil(t, plan)

	var missing *MissingArgumentError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "config_file", missing.Name)
}

func TestResolve_DeclarationDefaultWinsOverInlineDefault(t *testing.T) {
	t.Parallel()

	// The declaration says "false" while the substitution site carries an
	// inline "true". Declarations apply regardless of position, so the
	// resolved value must be "false".
	declared := cty.StringVal("false")
	desc := Description{
		&Node{Package: "p", Executable: "e", Parameters: []ParameterSource{
			ParameterSet{"flag": SubstVal(Configuration{Name: "publish_depth_registered", Default: strPtr("true")})},
		}},
		&DeclareArgument{Name: "publish_depth_registered", Default: &declared},
	}

	plan, err := Resolve(context.Background(), desc, nil, nil)
	require.NoError(t, err)
	require.Equal(t, cty.StringVal("false"), plan.Processes[0].Parameters[0].Values["flag"])
}

func TestResolve_InlineDefaultUsedWhenUndeclared(t *testing.T) {
	t.Parallel()

	desc := Description{
		&Node{Package: "p", Executable: "e", Parameters: []ParameterSource{
			ParameterSet{"flag": SubstVal(ConfigDefault("never_declared", "fallback"))},
		}},
	}

	plan, err := Resolve(context.Background(), desc, nil, nil)
	require.NoError(t, err)
	require.Equal(t, cty.StringVal("fallback"), plan.Processes[0].Parameters[0].Values["flag"])
}

func TestResolve_OverridePropagatesToInclude(t *testing.T) {
	t.Parallel()

	trueDefault := cty.StringVal("true")
	desc := Description{
		&Include{
			Source: "/fake/child.launch.hcl",
			Arguments: []ForwardedArgument{
				{Name: "publish_rgb", Value: ConfigDefault("publish_rgb", "true")},
				{Name: "publish_depth", Value: ConfigDefault("publish_depth", "true")},
			},
		},
		&DeclareArgument{Name: "publish_rgb", Default: &trueDefault},
		&DeclareArgument{Name: "publish_depth", Default: &trueDefault},
	}

	loaded := 0
	load := func(ctx context.Context, source string) (Description, error) {
		loaded++
		require.Equal(t, "/fake/child.launch.hcl", source)
		return Description{
			&Node{Package: "spot_driver", Executable: "spot_image_publisher", Parameters: []ParameterSource{
				ParameterSet{"publish_rgb": SubstVal(Config("publish_rgb"))},
			}},
			&DeclareArgument{Name: "publish_rgb", Default: &trueDefault},
			&DeclareArgument{Name: "publish_depth", Default: &trueDefault},
		}, nil
	}

	plan, err := Resolve(context.Background(), desc, map[string]string{"publish_rgb": "false"}, load)
	require.NoError(t, err)
	require.Equal(t, 1, loaded)
	require.Len(t, plan.Includes, 1)

	include := plan.Includes[0]
	require.Equal(t, []ResolvedArgument{
		{Name: "publish_rgb", Value: "false"},
		{Name: "publish_depth", Value: "true"},
	}, include.Arguments)
	require.Equal(t, cty.StringVal("false"), include.Plan.Processes[0].Parameters[0].Values["publish_rgb"])
}

func TestResolve_ParameterFilePathIdentityPreserved(t *testing.T) {
	t.Parallel()

	path := "/etc/spot/driver config (v2).yaml"
	desc := Description{
		&DeclareArgument{Name: "config_file"},
		&Node{Package: "spot_driver", Executable: "spot_ros2", Name: "spot_ros2", Parameters: []ParameterSource{
			ParameterFile{Path: Config("config_file")},
		}},
	}

	plan, err := Resolve(context.Background(), desc, map[string]string{"config_file": path}, nil)
	require.NoError(t, err)
	require.Equal(t, path, plan.Processes[0].Parameters[0].File)
}

func TestResolve_BoolDefaultRendersAsString(t *testing.T) {
	t.Parallel()

	boolDefault := cty.True
	desc := Description{
		&DeclareArgument{Name: "flag", Default: &boolDefault},
	}

	plan, err := Resolve(context.Background(), desc, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "true", plan.Arguments["flag"])
}

func TestResolve_IncludeWithoutLoaderFails(t *testing.T) {
	t.Parallel()

	desc := Description{
		&Include{Source: "/fake/child.launch.hcl"},
	}

	_, err := Resolve(context.Background(), desc, nil, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no include loader")
}

func TestResolve_AllProcessesPreservesOrder(t *testing.T) {
	t.Parallel()

	load := func(ctx context.Context, source string) (Description, error) {
		return Description{
			&Node{Package: "child", Executable: "worker"},
		}, nil
	}
	desc := Description{
		&Include{Source: "/fake/child.launch.hcl"},
		&Node{Package: "parent", Executable: "driver"},
		&Node{Package: "parent", Executable: "publisher"},
	}

	plan, err := Resolve(context.Background(), desc, nil, load)
	require.NoError(t, err)

	all := plan.AllProcesses()
	require.Len(t, all, 3)
	require.Equal(t, "driver", all[0].Executable)
	require.Equal(t, "publisher", all[1].Executable)
	require.Equal(t, "worker", all[2].Executable)
}
