package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/tstromberg/photoconfig/pkg/photoconfig"
)

var (
	inDir     = flag.String("in", "", "Location of image directory (default: <project>/assets/photos)")
	outPath   = flag.String("out", "config.json", "Location of output file")
	srcPrefix = flag.String("src-prefix", `\assets\photos`, "prefix for the src field of each image")
	srcSep    = flag.String("src-sep", `\`, "separator between src-prefix and the image name")
	decoder   = flag.String("decoder", photoconfig.GoexifDecoder, "metadata decoder: goexif or exiftool")
	workers   = flag.Int("workers", 1, "number of images to read in parallel")
	listen    = flag.Bool("listen", false, "serve the output directory via HTTP after building")
	addr      = flag.String("addr", "localhost:12800", "host:port to bind to in listen mode")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	exe, err := os.Executable()
	if err != nil {
		klog.Exitf("executable: %v", err)
	}

	c := photoconfig.DefaultConfig(exe)
	if *inDir != "" {
		c.InDir = *inDir
	}
	c.OutPath = *outPath
	c.SrcPrefix = *srcPrefix
	c.SrcSeparator = *srcSep
	c.Decoder = *decoder
	c.Workers = *workers

	if _, err := photoconfig.Build(context.Background(), c); err != nil {
		klog.Exitf("build failed: %v", err)
	}

	if *listen {
		serve(filepath.Dir(c.OutPath), *addr)
	}
}

// serve serves a static web directory via HTTP
func serve(path string, addr string) {
	fs := http.FileServer(http.Dir(path))
	http.Handle("/", fs)

	klog.Infof("Listening on %s...", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		klog.Exitf("listen failed: %v", err)
	}
}
