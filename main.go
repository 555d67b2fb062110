package main

import (
	"fmt"
	"os"

	"github.com/jujunwang/Minidis/config"
	"github.com/jujunwang/Minidis/database"
	"github.com/jujunwang/Minidis/lib/logger"
	"github.com/jujunwang/Minidis/resp/handler"
	"github.com/jujunwang/Minidis/tcp"
	"github.com/spf13/pflag"
)

func main() {
	configFilename := pflag.StringP("config", "c", os.Getenv("CONFIG"), "config file (yaml)")
	port := pflag.IntP("port", "p", 0, "listen port, overrides the config file")
	pflag.Parse()

	if err := config.SetupConfig(*configFilename); err != nil {
		logger.Fatal(err)
	}
	props := config.Properties
	if *port > 0 {
		props.Port = *port
	}

	err := logger.Setup(&logger.Settings{
		Level:      props.LogLevel,
		FileName:   props.LogFile,
		MaxSize:    props.LogMaxSize,
		MaxAge:     props.LogMaxAge,
		MaxBackups: props.LogMaxBackups,
		Compress:   props.LogCompress,
	})
	if err != nil {
		logger.Fatal(fmt.Errorf("setup logger: %w", err))
	}
	defer logger.Sync()

	db, err := database.NewStandaloneDatabase(props)
	if err != nil {
		logger.Fatal(err)
	}
	err = tcp.ListenAndServeWithSignal(&tcp.Config{
		Address:        props.Address(),
		MaxConnect:     uint32(props.MaxClients),
		MaxEvents:      props.MaxEvents,
		ReadBufferSize: props.ReadBufferSize,
	}, handler.MakeHandler(db))
	if err != nil {
		db.Close()
		logger.Fatal(err)
	}
}
