package slot

import (
	"github.com/autobay/shop-scheduling-service/pkg/dbmetrics"
)

// Reuse the executor interfaces so the repository joins an open transaction
// published through the context.
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor
