// otb turns KiCad netlists into bills of materials
package main

import "github.com/OpenTraceLab/OpenTraceBOM/cmd/otb/cmd"

func main() {
	cmd.Execute()
}
