package main

import (
	"bytes"
	"context"
	"phishfeatures/pkg/features"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemaCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := schemaCommand()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Equal(t, "# version 1", lines[0])
	require.Len(t, lines, len(features.Schema)+1)
	require.Equal(t, "0\tlength_url\tcount", lines[1])
	require.Equal(t, "55\tstatistical_report\tflag", lines[len(lines)-1])
}

func TestSchemaCommand_Profile(t *testing.T) {
	var out bytes.Buffer
	cmd := schemaCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--profile"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	require.Equal(t, strings.Join(features.ProfileNames, "\n")+"\n", out.String())
}
