package xacro

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExpandFile_PropertySubstitution(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTemplate(t, dir, "robot.xacro", `
<robot xmlns:xacro="http://www.ros.org/wiki/xacro" name="test">
  <xacro:property name="width" value="0.24"/>
  <link name="body">
    <box size="${width}"/>
  </link>
</robot>`)

	out, err := ExpandFile(path, Options{})
	require.NoError(t, err)
	require.Contains(t, out, `size="0.24"`)
	require.NotContains(t, out, "xacro:property")
	require.NotContains(t, out, "${width}")
}

func TestExpandFile_MacroInstantiation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTemplate(t, dir, "robot.xacro", `
<robot xmlns:xacro="http://www.ros.org/wiki/xacro" name="test">
  <xacro:macro name="leg" params="prefix offset:=0">
    <link name="${prefix}_leg"/>
    <joint name="${prefix}_joint">
      <origin xyz="${offset} 0 0"/>
    </joint>
  </xacro:macro>
  <xacro:leg prefix="front" offset="0.3"/>
  <xacro:leg prefix="rear"/>
</robot>`)

	out, err := ExpandFile(path, Options{})
	require.NoError(t, err)
	require.Contains(t, out, `name="front_leg"`)
	require.Contains(t, out, `xyz="0.3 0 0"`)
	require.Contains(t, out, `name="rear_leg"`)
	require.Contains(t, out, `xyz="0 0 0"`)
	require.NotContains(t, out, "xacro:")
}

func TestExpandFile_MacroBlockParameter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTemplate(t, dir, "robot.xacro", `
<robot xmlns:xacro="http://www.ros.org/wiki/xacro" name="test">
  <xacro:macro name="shell" params="prefix *shape">
    <link name="${prefix}_link">
      <xacro:insert_block name="shape"/>
    </link>
  </xacro:macro>
  <xacro:shell prefix="body">
    <box size="0.85 0.24 0.19"/>
  </xacro:shell>
</robot>`)

	out, err := ExpandFile(path, Options{})
	require.NoError(t, err)
	require.Contains(t, out, `name="body_link"`)
	require.Contains(t, out, `<box size="0.85 0.24 0.19"/>`)
	require.NotContains(t, out, "insert_block")
}

func TestExpandFile_InsertBlockWithoutBinding(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTemplate(t, dir, "robot.xacro", `
<robot xmlns:xacro="http://www.ros.org/wiki/xacro" name="test">
  <xacro:insert_block name="shape"/>
</robot>`)

	_, err := ExpandFile(path, Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown block "shape"`)
}

func TestExpandFile_MacroMissingParameter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTemplate(t, dir, "robot.xacro", `
<robot xmlns:xacro="http://www.ros.org/wiki/xacro" name="test">
  <xacro:macro name="leg" params="prefix">
    <link name="${prefix}_leg"/>
  </xacro:macro>
  <xacro:leg/>
</robot>`)

	_, err := ExpandFile(path, Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), `required parameter "prefix"`)
}

func TestExpandFile_IncludeSplicesContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTemplate(t, dir, "materials.xacro", `
<robot xmlns:xacro="http://www.ros.org/wiki/xacro">
  <material name="yellow"/>
</robot>`)
	path := writeTemplate(t, dir, "robot.xacro", `
<robot xmlns:xacro="http://www.ros.org/wiki/xacro" name="test">
  <xacro:include filename="materials.xacro"/>
  <link name="body"/>
</robot>`)

	out, err := ExpandFile(path, Options{})
	require.NoError(t, err)
	require.Contains(t, out, `<material name="yellow"/>`)
	require.NotContains(t, out, "xacro:include")
}

func TestExpandFile_IncludeCycleFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTemplate(t, dir, "a.xacro", `
<robot xmlns:xacro="http://www.ros.org/wiki/xacro">
  <xacro:include filename="b.xacro"/>
</robot>`)
	writeTemplate(t, dir, "b.xacro", `
<robot xmlns:xacro="http://www.ros.org/wiki/xacro">
  <xacro:include filename="a.xacro"/>
</robot>`)

	_, err := ExpandFile(filepath.Join(dir, "a.xacro"), Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "include cycle")
}

func TestExpandFile_Conditionals(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTemplate(t, dir, "robot.xacro", `
<robot xmlns:xacro="http://www.ros.org/wiki/xacro" name="test">
  <xacro:if value="$(arg with_arm)">
    <link name="arm"/>
  </xacro:if>
  <xacro:unless value="$(arg with_arm)">
    <link name="no_arm"/>
  </xacro:unless>
</robot>`)

	out, err := ExpandFile(path, Options{Arguments: map[string]string{"with_arm": "true"}})
	require.NoError(t, err)
	require.Contains(t, out, `name="arm"`)
	require.NotContains(t, out, `name="no_arm"`)

	out, err = ExpandFile(path, Options{Arguments: map[string]string{"with_arm": "false"}})
	require.NoError(t, err)
	require.NotContains(t, out, `name="arm"`)
	require.Contains(t, out, `name="no_arm"`)
}

func TestExpandFile_FindAndEnvSubstitution(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTemplate(t, dir, "robot.xacro", `
<robot xmlns:xacro="http://www.ros.org/wiki/xacro" name="test">
  <mesh filename="$(find spot_description)/meshes/body.dae"/>
  <tag value="$(env SPOT_SERIAL)"/>
</robot>`)

	out, err := ExpandFile(path, Options{
		FindShare: func(pkg string) (string, error) { return "/opt/share/" + pkg, nil },
		Getenv: func(name string) string {
			require.Equal(t, "SPOT_SERIAL", name)
			return "beta-29"
		},
	})
	require.NoError(t, err)
	require.Contains(t, out, `filename="/opt/share/spot_description/meshes/body.dae"`)
	require.Contains(t, out, `value="beta-29"`)
}

func TestExpandFile_UnresolvedPropertyFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTemplate(t, dir, "robot.xacro", `
<robot xmlns:xacro="http://www.ros.org/wiki/xacro" name="test">
  <link name="${missing}"/>
</robot>`)

	_, err := ExpandFile(path, Options{})
	require.Error(t, err)

	var expErr *TemplateExpansionError
	require.True(t, errors.As(err, &expErr))
	require.Equal(t, path, expErr.Path)
	require.Contains(t, expErr.Error(), `unresolved property "missing"`)
}

func TestExpandFile_MalformedXMLFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTemplate(t, dir, "robot.xacro", `<robot name="broken">`)

	_, err := ExpandFile(path, Options{})
	require.Error(t, err)

	var expErr *TemplateExpansionError
	require.True(t, errors.As(err, &expErr))
}

func TestExpandFile_UnknownDirectiveFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTemplate(t, dir, "robot.xacro", `
<robot xmlns:xacro="http://www.ros.org/wiki/xacro" name="test">
  <xacro:no_such_macro/>
</robot>`)

	_, err := ExpandFile(path, Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown macro or directive")
}

func TestExpandFile_Idempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTemplate(t, dir, "materials.xacro", `
<robot xmlns:xacro="http://www.ros.org/wiki/xacro">
  <material name="yellow"/>
</robot>`)
	path := writeTemplate(t, dir, "robot.xacro", `
<robot xmlns:xacro="http://www.ros.org/wiki/xacro" name="test">
  <xacro:include filename="materials.xacro"/>
  <xacro:property name="width" value="0.24"/>
  <xacro:macro name="leg" params="prefix">
    <link name="${prefix}_leg"/>
  </xacro:macro>
  <xacro:leg prefix="front"/>
  <link name="body">
    <box size="${width}"/>
  </link>
</robot>`)

	first, err := ExpandFile(path, Options{})
	require.NoError(t, err)
	second, err := ExpandFile(path, Options{})
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.NotEmpty(t, first)
}

func TestExpandFile_EscapedDollar(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTemplate(t, dir, "robot.xacro", `
<robot xmlns:xacro="http://www.ros.org/wiki/xacro" name="test">
  <tag value="$$ stays"/>
</robot>`)

	out, err := ExpandFile(path, Options{})
	require.NoError(t, err)
	require.Contains(t, out, `value="$ stays"`)
}
