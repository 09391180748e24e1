package main

import (
	"fmt"
	"github.com/alecthomas/kong"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"io"
	"os"
	"shm/importing"
	ownIo "shm/io"
	"shm/web"
	"strings"
)

const VERSION = "v0.1.0"

var cli struct {
	Logging  string      `help:"Logging verbosity." enum:"info,debug,trace" short:"l" default:"info"`
	Version  VersionFlag `help:"Print version information and quit" name:"version" short:"v"`
	CellSize int         `help:"Number of cells per axis of the spatial hashmap covering the whole world." short:"c" default:"100"`
	Groups   struct {
		Input  string `help:"The input file. Either .osm or .osm.pbf." placeholder:"<input-file>" arg:"" type:"existingfile"`
		Output string `help:"The GeoJSON output file. Use '-' for stdout." short:"o" placeholder:"<output-file>" default:"output.geojson"`
	} `cmd:"" help:"Writes all groups of possibly colliding objects as GeoJSON."`
	Nearby struct {
		Input  string  `help:"The input file. Either .osm or .osm.pbf." placeholder:"<input-file>" arg:"" type:"existingfile"`
		MinLon float64 `help:"Minimum longitude of the query range." arg:""`
		MinLat float64 `help:"Minimum latitude of the query range." arg:""`
		MaxLon float64 `help:"Maximum longitude of the query range." arg:""`
		MaxLat float64 `help:"Maximum latitude of the query range." arg:""`
		Output string  `help:"The GeoJSON output file. Use '-' for stdout." short:"o" placeholder:"<output-file>" default:"output.geojson"`
	} `cmd:"" help:"Writes all objects possibly intersecting the given range as GeoJSON."`
	Server struct {
		Input string `help:"The input file. Either .osm or .osm.pbf." placeholder:"<input-file>" arg:"" type:"existingfile"`
		Port  string `help:"The port of the HTTP server." short:"p" default:"8080"`
	} `cmd:"" help:"Starts a server answering nearby and group queries for the given file."`
}

type VersionFlag string

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(vars["version"])
	app.Exit(0)
	return nil
}

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("Spatial hashmap"),
		kong.Description("Broad-phase collision candidates of OSM data using a uniform grid."),
		kong.Vars{
			"version": VERSION,
		},
	)

	if strings.ToLower(cli.Logging) == "debug" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_DEBUG)
	} else if strings.ToLower(cli.Logging) == "trace" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	} else if strings.ToLower(cli.Logging) == "info" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_INFO)
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
	} else {
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
		sigolo.Fatalf("Unknown logging level '%s'", cli.Logging)
	}

	switch ctx.Command() {
	case "groups <input>":
		layer, err := importing.Import(cli.Groups.Input, cli.CellSize)
		sigolo.FatalCheck(err)

		err = writeOutput(cli.Groups.Output, func(writer io.Writer) error {
			return ownIo.WriteGroupsAsGeoJson(layer.Groups(), layer.Geometries, writer)
		})
		sigolo.FatalCheck(err)
	case "nearby <input> <min-lon> <min-lat> <max-lon> <max-lat>":
		layer, err := importing.Import(cli.Nearby.Input, cli.CellSize)
		sigolo.FatalCheck(err)

		ids, err := layer.Nearby(orb.Bound{
			Min: orb.Point{cli.Nearby.MinLon, cli.Nearby.MinLat},
			Max: orb.Point{cli.Nearby.MaxLon, cli.Nearby.MaxLat},
		})
		sigolo.FatalCheck(err)

		sigolo.Debugf("Found %d nearby objects", len(ids))

		err = writeOutput(cli.Nearby.Output, func(writer io.Writer) error {
			return ownIo.WriteNearbyAsGeoJson(ids, layer.Geometries, writer)
		})
		sigolo.FatalCheck(err)
	case "server <input>":
		layer, err := importing.Import(cli.Server.Input, cli.CellSize)
		sigolo.FatalCheck(err)

		web.StartServer(cli.Server.Port, layer)
	default:
		sigolo.Errorf("Unknown command '%s'", ctx.Command())
	}
}

func writeOutput(outputFile string, write func(writer io.Writer) error) error {
	if outputFile == "-" {
		return write(os.Stdout)
	}
	return ownIo.WriteGeoJsonFile(outputFile, write)
}
