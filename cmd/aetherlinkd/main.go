package main

import (
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/cli"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/logtrace"
)

func init() {
	logtrace.InitLogger()
}

func main() {
	cli.Execute()
}
