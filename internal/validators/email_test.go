package validators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmailDomainValidRejectsMalformed(t *testing.T) {
	ctx := context.Background()

	assert.False(t, IsEmailDomainValid(ctx, "no-at-sign"))
	assert.False(t, IsEmailDomainValid(ctx, "user@"))
}

func TestIsEmailDomainValidHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, IsEmailDomainValid(ctx, "user@barber.invalid"))
}
