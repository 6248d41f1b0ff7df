package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/milltech/erpchat/pkg/models"
)

func TestEngine_EmptyQuestion(t *testing.T) {
	// Input validation happens before any classification or database
	// access, so a bare engine is enough here.
	e := NewEngine(nil, nil, NewFormatter(), nil, zap.NewNop())

	for _, q := range []string{"", "   ", "\n\t"} {
		reply := e.Answer(context.Background(), q, nil)
		assert.Equal(t, models.ReplyDirect, reply.Kind)
		assert.Equal(t, "Please send a question about orders, production or stock.", reply.Text)
	}
}
