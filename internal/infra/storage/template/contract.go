package template

import "github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"

// DBExecutor принимает *sql.DB и *dbmetrics.DB
type DBExecutor = dbmetrics.DBExecutor
