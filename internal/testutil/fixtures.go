package testutil

// SpotTemplate is a trimmed-down robot description template exercising the
// directives the real one uses: an include, properties, and a leg macro.
const SpotTemplate = `<?xml version="1.0"?>
<robot xmlns:xacro="http://www.ros.org/wiki/xacro" name="spot">
  <xacro:include filename="materials.xacro"/>
  <xacro:property name="body_length" value="0.85"/>
  <xacro:property name="body_width" value="0.24"/>
  <xacro:property name="body_height" value="0.19"/>

  <link name="body">
    <visual>
      <geometry>
        <box size="${body_length} ${body_width} ${body_height}"/>
      </geometry>
      <material name="spot_yellow"/>
    </visual>
  </link>

  <xacro:macro name="leg" params="prefix offset_x offset_y">
    <link name="${prefix}_hip"/>
    <joint name="${prefix}_hip_joint" type="revolute">
      <parent link="body"/>
      <child link="${prefix}_hip"/>
      <origin xyz="${offset_x} ${offset_y} 0"/>
    </joint>
  </xacro:macro>

  <xacro:leg prefix="front_left" offset_x="0.29785" offset_y="0.055"/>
  <xacro:leg prefix="front_right" offset_x="0.29785" offset_y="-0.055"/>
  <xacro:leg prefix="rear_left" offset_x="-0.29785" offset_y="0.055"/>
  <xacro:leg prefix="rear_right" offset_x="-0.29785" offset_y="-0.055"/>
</robot>
`

// SpotMaterials is the include target referenced by SpotTemplate.
const SpotMaterials = `<robot xmlns:xacro="http://www.ros.org/wiki/xacro">
  <material name="spot_yellow">
    <color rgba="0.93 0.69 0.13 1.0"/>
  </material>
  <material name="spot_black">
    <color rgba="0.15 0.15 0.15 1.0"/>
  </material>
</robot>
`

// ImagePublishersLaunch mirrors the delegated camera publishers launch file.
const ImagePublishersLaunch = `argument "publish_rgb" {
  description = "Start publishing all RGB channels on Spot cameras"
  default     = "true"
}

argument "publish_depth" {
  description = "Start publishing all depth channels on Spot cameras"
  default     = "true"
}

argument "publish_depth_registered" {
  description = "Start publishing all depth_registered channels on Spot cameras"
  default     = "true"
}

node "spot_image_publisher" {
  package    = "spot_driver"
  executable = "spot_image_publisher"
  output     = "screen"

  parameters {
    publish_rgb              = arg.publish_rgb
    publish_depth            = arg.publish_depth
    publish_depth_registered = arg.publish_depth_registered
  }
}
`

// DriverConfig is a minimal driver configuration file in the conventional
// parameters file layout.
const DriverConfig = `/**:
  ros__parameters:
    username: user
    password: password
    hostname: "10.0.0.3"
`
