// Package spotdriver assembles the launch description for the Spot robot
// driver stack: the image publishers inclusion, the launch argument
// declarations, the driver process, and the robot state publisher carrying
// the expanded robot description.
package spotdriver

import (
	"context"
	"path/filepath"

	"github.com/zclconf/go-cty/cty"

	"github.com/spotstack/launchgo/internal/ctxlog"
	"github.com/spotstack/launchgo/internal/launch"
	"github.com/spotstack/launchgo/internal/registry"
	"github.com/spotstack/launchgo/internal/xacro"
)

// Name is the description name this package registers under.
const Name = "spot_driver"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the generator with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterGenerator(Name, Generate)
}

// Generate builds the spot driver launch description. The robot description
// template is expanded eagerly, so a missing spot_description package or a
// malformed template fails here, before any entity exists.
func Generate(ctx context.Context, deps registry.Deps) (launch.Description, error) {
	logger := ctxlog.FromContext(ctx)

	shareDir, err := deps.Index.ShareDirectory("spot_description")
	if err != nil {
		return nil, err
	}
	templatePath := filepath.Join(shareDir, "urdf", "spot.urdf.xacro")
	robotDescription, err := xacro.ExpandFile(templatePath, xacro.Options{
		FindShare: deps.Index.ShareDirectory,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Robot description template expanded.", "template", templatePath, "bytes", len(robotDescription))

	driverShare, err := deps.Index.ShareDirectory("spot_driver")
	if err != nil {
		return nil, err
	}

	imagePublishers := &launch.Include{
		Source: filepath.Join(driverShare, "launch", "spot_image_publishers.launch.hcl"),
		Arguments: []launch.ForwardedArgument{
			{Name: "publish_rgb", Value: launch.ConfigDefault("publish_rgb", "true")},
			{Name: "publish_depth", Value: launch.ConfigDefault("publish_depth", "true")},
			// The inline default here disagrees with the declaration below.
			// The upstream launch file ships this divergence; it is kept
			// verbatim, and the declaration wins during resolution.
			{Name: "publish_depth_registered", Value: launch.ConfigDefault("publish_depth_registered", "true")},
		},
	}

	trueVal := cty.StringVal("true")
	falseVal := cty.StringVal("false")

	return launch.Description{
		imagePublishers,
		&launch.DeclareArgument{
			Name:        "publish_rgb",
			Description: "Start publishing all RGB channels on Spot cameras",
			Default:     &trueVal,
		},
		&launch.DeclareArgument{
			Name:        "publish_depth",
			Description: "Start publishing all depth channels on Spot cameras",
			Default:     &trueVal,
		},
		&launch.DeclareArgument{
			Name:        "publish_depth_registered",
			Description: "Start publishing all depth_registered channels on Spot cameras",
			Default:     &falseVal,
		},
		&launch.DeclareArgument{
			Name:        "config_file",
			Description: "Path to configuration file for the driver.",
		},
		&launch.Node{
			Package:    "spot_driver",
			Executable: "spot_ros2",
			Name:       "spot_ros2",
			Output:     "screen",
			Parameters: []launch.ParameterSource{
				launch.ParameterFile{Path: launch.Config("config_file")},
			},
		},
		&launch.Node{
			Package:    "robot_state_publisher",
			Executable: "robot_state_publisher",
			Output:     "screen",
			Parameters: []launch.ParameterSource{
				launch.ParameterSet{
					"robot_description": launch.StringVal(robotDescription),
				},
			},
		},
	}, nil
}
