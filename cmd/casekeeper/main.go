package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/aeadata/casekeeper/internal/cli"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: failed to load .env: %v", err)
		}
	}

	logFile := fmt.Sprintf("casekeeper_%s.log", time.Now().Format("20060102_150405"))
	logger.Init(logFile, "debug", 0, 0, 0, true)
	logutil.GetLogger(context.Background()).Info("log file opened", zap.String("path", logFile))

	if err := cli.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("exec cli failed", zap.Error(err))
		os.Exit(1)
	}
}
