package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/househelp/househelp/internal/migration"
	"github.com/househelp/househelp/internal/observability"
	"github.com/househelp/househelp/internal/server"
	"github.com/househelp/househelp/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
