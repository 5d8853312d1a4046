// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command comicctl is the back-office tool for the comic archive and reader reports.
package main

import (
	"os"

	"github.com/taibuivan/inkwell/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
