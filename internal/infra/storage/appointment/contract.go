package appointment

import (
	"github.com/autobay/shop-scheduling-service/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor
