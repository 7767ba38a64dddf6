package installer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"httpdctl/internal/testing/mock"
)

func TestInstall(t *testing.T) {
	runner := mock.NewRunner()
	inst := New(runner)

	require.NoError(t, inst.Install(context.Background(), []string{"apache2"}, nil))

	assert.Equal(t, []string{
		"apt-get --assume-yes --option=Dpkg::Options::=--force-confold install apache2",
	}, runner.CommandLines())
}

func TestInstall_MultiplePackagesAndOptions(t *testing.T) {
	runner := mock.NewRunner()
	inst := New(runner)

	require.NoError(t, inst.Install(context.Background(), []string{"apache2", "apache2-utils"}, []string{"--no-install-recommends"}))

	assert.Equal(t, []string{
		"apt-get --assume-yes --no-install-recommends install apache2 apache2-utils",
	}, runner.CommandLines())
}

func TestInstall_EmptyPackageList(t *testing.T) {
	runner := mock.NewRunner()
	inst := New(runner)

	err := inst.Install(context.Background(), nil, nil)

	var installErr *InstallError
	require.ErrorAs(t, err, &installErr)
	assert.Empty(t, runner.Calls(), "apt-get must not be invoked without packages")
}

func TestInstall_CommandFailure(t *testing.T) {
	runner := mock.NewRunner()
	runner.ScriptExit("apt-get --assume-yes --option=Dpkg::Options::=--force-confold install apache2", 100)
	inst := New(runner)

	err := inst.Install(context.Background(), []string{"apache2"}, nil)

	var installErr *InstallError
	require.ErrorAs(t, err, &installErr)
	assert.Equal(t, []string{"apache2"}, installErr.Packages)
}
