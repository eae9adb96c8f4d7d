package main

import (
	cmd "comicpdf/cmd/comicpdf"
)

func main() {
	cmd.Execute()
}
