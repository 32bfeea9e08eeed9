package main

import (
	"github.com/kievzenit/kscope/internal/configs"
	"github.com/kievzenit/kscope/internal/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Configs configs.Module
	Logs    logs.Module
}
