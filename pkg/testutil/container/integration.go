// Package container provides testcontainers helpers for integration tests
// against real redis, mongo and kafka instances.
package container

import (
	"os"
	"testing"
)

// IntegrationEnvVar gates container-backed tests.
const IntegrationEnvVar = "INTEGRATION_TESTS"

// SkipUnlessIntegration skips the test unless INTEGRATION_TESTS is set.
// Container tests need a docker daemon, which CI units runs do not have.
func SkipUnlessIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv(IntegrationEnvVar) == "" {
		t.Skipf("set %s=1 to run container-backed tests", IntegrationEnvVar)
	}
}
