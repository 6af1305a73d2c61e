package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quotebox/internal/platform/logging"
)

type idKind int

const (
	requestIDKind idKind = iota
	correlationIDKind
	sessionIDKind
)

type idSpec struct {
	header string
	ginKey string
	log    func(ctx context.Context, id string) context.Context
}

var idSpecs = [...]idSpec{
	requestIDKind:     {header: HeaderRequestID, ginKey: ContextKeyRequestID, log: logging.WithRequestID},
	correlationIDKind: {header: HeaderCorrelationID, ginKey: ContextKeyCorrelationID, log: logging.WithCorrelationID},
	sessionIDKind:     {header: HeaderSessionID, ginKey: ContextKeySessionID, log: logging.WithSessionID},
}

// carryID takes the id from its header or makes a UUID, echoes it, and puts
// it on the gin context, the request context and the request logger.
func carryID(kind idKind) gin.HandlerFunc {
	spec := idSpecs[kind]

	return func(c *gin.Context) {
		id := c.GetHeader(spec.header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(spec.ginKey, id)
		c.Header(spec.header, id)

		ctx := spec.log(withID(c.Request.Context(), kind, id), id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func ginID(c *gin.Context, kind idKind) string {
	id, _ := c.Get(idSpecs[kind].ginKey)
	s, _ := id.(string)

	return s
}
