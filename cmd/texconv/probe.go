package main

import (
	"fmt"
	"os"

	"texengine/streamio"
)

func runProbe(tk *toolkit, file string) error {
	s, err := streamio.OpenFileStream(file, os.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	defer s.Close()

	typeName, err := tk.images.GetNativeImageTypeForStream(s)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	if typeName == "" {
		fmt.Println("unknown")
		return nil
	}

	fmt.Println(typeName)
	return nil
}
