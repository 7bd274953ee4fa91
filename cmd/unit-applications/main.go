// cmd/unit-applications/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"unit-client/internal/application"
	"unit-client/internal/client"
	"unit-client/internal/common/cache"
	"unit-client/internal/common/config"
	"unit-client/internal/common/logger"
	"unit-client/internal/common/observability"
)

func main() {
	decodeCmd := flag.NewFlagSet("decode", flag.ExitOnError)
	getCmd := flag.NewFlagSet("get", flag.ExitOnError)
	documentsCmd := flag.NewFlagSet("documents", flag.ExitOnError)

	file := decodeCmd.String("file", "-", "Path to a JSON:API application or document payload (- for stdin)")
	getID := getCmd.String("id", "", "Application ID")
	documentsID := documentsCmd.String("id", "", "Application ID")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "decode":
		decodeCmd.Parse(os.Args[2:])
		body, err := readPayload(*file)
		if err != nil {
			fmt.Printf("Error reading payload: %v\n", err)
			os.Exit(1)
		}
		out, err := decodePayload(body)
		if err != nil {
			fmt.Printf("Decode failed: %v\n", err)
			os.Exit(1)
		}
		if err := printJSON(out); err != nil {
			os.Exit(1)
		}

	case "get":
		getCmd.Parse(os.Args[2:])
		if *getID == "" {
			fmt.Println("Error: id is required for get.")
			getCmd.Usage()
			os.Exit(1)
		}
		err := run(func(ctx context.Context, c *client.Client) (interface{}, error) {
			app, err := c.GetApplication(ctx, *getID)
			if err != nil {
				return nil, err
			}
			return summarizeApplication(app), nil
		})
		if err != nil {
			os.Exit(1)
		}

	case "documents":
		documentsCmd.Parse(os.Args[2:])
		if *documentsID == "" {
			fmt.Println("Error: id is required for documents.")
			documentsCmd.Usage()
			os.Exit(1)
		}
		err := run(func(ctx context.Context, c *client.Client) (interface{}, error) {
			docs, err := c.ListDocuments(ctx, *documentsID)
			if err != nil {
				return nil, err
			}
			return summarizeDocuments(docs), nil
		})
		if err != nil {
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

// run wires config, logging, cache and tracing around one API operation.
// Failures are reported here; the caller only picks the exit code, after every
// deferred flush has run.
func run(op func(ctx context.Context, c *client.Client) (interface{}, error)) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config load failed: %v\n", err)
		return err
	}
	if err := cfg.Unit.RequireToken(); err != nil {
		fmt.Printf("Config invalid: %v\n", err)
		return err
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.App.Name, prometheus.DefaultRegisterer)
	if err != nil {
		zapLog.Warn("observability disabled", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		obs.Shutdown(shutdownCtx)
	}()

	opts := []client.Option{client.WithObservability(obs)}
	if cfg.Cache.Enabled {
		rc := cache.NewRedis(cfg.Redis, cfg.Cache)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			zapLog.Warn("cache unavailable, continuing without it", zap.Error(err))
		} else {
			opts = append(opts, client.WithCache(rc))
		}
	}

	c := client.New(cfg.Unit, log, opts...)
	out, err := op(ctx, c)
	if err != nil {
		zapLog.Error("request failed", zap.Error(err))
		return err
	}
	return printJSON(out)
}

func readPayload(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// decodePayload picks the decoder from the shape of "data".
func decodePayload(body []byte) (interface{}, error) {
	data := gjson.GetBytes(body, "data")
	switch {
	case data.IsArray():
		docs, err := client.DecodeDocuments(body)
		if err != nil {
			return nil, err
		}
		return summarizeDocuments(docs), nil
	case data.Get("type").String() == application.TypeDocument:
		doc, err := client.DecodeDocument(body)
		if err != nil {
			return nil, err
		}
		return summarizeDocument(doc), nil
	default:
		app, err := client.DecodeApplication(body)
		if err != nil {
			return nil, err
		}
		return summarizeApplication(app), nil
	}
}

func summarizeApplication(app application.Application) map[string]interface{} {
	out := map[string]interface{}{
		"id":     app.GetID(),
		"type":   app.Type(),
		"status": app.GetStatus(),
	}
	switch a := app.(type) {
	case *application.IndividualApplication:
		out["createdAt"] = a.CreatedAt
		out["name"] = a.FullName.First + " " + a.FullName.Last
		out["dateOfBirth"] = a.DateOfBirth
		out["email"] = a.Email
		if a.Message.Valid {
			out["message"] = a.Message.String
		}
	case *application.BusinessApplication:
		out["createdAt"] = a.CreatedAt
		out["name"] = a.Name
		out["entityType"] = a.EntityType
		out["stateOfIncorporation"] = a.StateOfIncorporation
		out["beneficialOwners"] = len(a.BeneficialOwners)
		if a.Message.Valid {
			out["message"] = a.Message.String
		}
	}
	return out
}

func summarizeDocument(d *application.ApplicationDocument) map[string]interface{} {
	out := map[string]interface{}{
		"id":           d.ID,
		"documentType": d.DocumentType,
		"status":       d.Status,
		"description":  d.Description,
	}
	if d.ReasonCode.Valid {
		out["reasonCode"] = d.ReasonCode.V
	}
	if d.Reason.Valid {
		out["reason"] = d.Reason.String
	}
	return out
}

func summarizeDocuments(docs []*application.ApplicationDocument) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(docs))
	for _, d := range docs {
		out = append(out, summarizeDocument(d))
	}
	return out
}

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Error encoding output: %v\n", err)
		return err
	}
	fmt.Println(string(b))
	return nil
}

func help() {
	fmt.Println(`Unit Applications CLI

Usage:
  unit-applications decode    -file <path>   Decode a stored application or document payload
  unit-applications get       -id <id>       Fetch an application
  unit-applications documents -id <id>       List the documents requested for an application

Configuration is read from configs/config.yaml. Environment variables named after a key
override it (UNIT_TOKEN, UNIT_BASE_URL, CACHE_ENABLED, REDIS_ADDRESS, LOGGING_LEVEL).
get and documents require UNIT_TOKEN.`)
}
