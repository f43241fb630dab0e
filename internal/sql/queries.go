package sql

import (
	"embed"
)

// Migrations holds the schema DDL, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/upsert_subscriber.sql
var UpsertSubscriber string

//go:embed queries/insert_analysis.sql
var InsertAnalysis string

//go:embed queries/recent_analyses.sql
var RecentAnalyses string
