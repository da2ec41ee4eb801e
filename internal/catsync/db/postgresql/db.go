// Package postgresql implements the catalog store interfaces against
// PostgreSQL.
package postgresql

import (
	"context"
	"database/sql"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/dbmanager"
)

type catalogDb struct {
	im *ingestManager
	sm *syncManager
	qm *queryManager
	cm *connectionManager
}

// NewCatalogDb binds the store managers to a checked-out connection.
func NewCatalogDb(c dbmanager.Conn) (*ingestManager, *syncManager, *queryManager, *connectionManager) {
	h := &catalogDb{}
	h.im = &ingestManager{c: c}
	h.sm = &syncManager{c: c}
	h.qm = &queryManager{c: c}
	h.cm = &connectionManager{c: c}
	return h.im, h.sm, h.qm, h.cm
}

type ingestManager struct {
	c dbmanager.Conn
}

func (im *ingestManager) conn() *sql.Conn {
	return im.c.Conn()
}

type syncManager struct {
	c dbmanager.Conn
}

func (sm *syncManager) conn() *sql.Conn {
	return sm.c.Conn()
}

type queryManager struct {
	c dbmanager.Conn
}

func (qm *queryManager) conn() *sql.Conn {
	return qm.c.Conn()
}

type connectionManager struct {
	c dbmanager.Conn
}

// Close returns the connection back to the pool.
func (cm *connectionManager) Close(ctx context.Context) {
	cm.c.Close(ctx)
}
