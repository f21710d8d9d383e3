package court

import (
	"github.com/m04kA/SMC-CourtBooking/pkg/dbmetrics"
)

// DBExecutor интерфейс для выполнения запросов, транзакция берётся из контекста
type DBExecutor = dbmetrics.DBExecutor
