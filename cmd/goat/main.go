// Copyright 2013 Google, Inc.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// goat
//
// It is a basic example of line editing with the "readline" package. It
// reads a line at a time and logs what it read. Try typing a line and
// then hitting the up key on the next line. Try editing a previous line
// and hitting the up key again. Hit Tab after a partial command name for
// completion.
//
// Type "quit", or close standard input, to exit.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/Holixus/readline"
	"github.com/Holixus/readline/history"
)

var historyFile = flag.String("history", "", "path to a history file to load and save (optional)")

// commands is the toy command set the demo offers tab completion over.
var commands = []string{"help", "history", "list", "load", "quit", "save"}

func main() {
	flag.Parse()

	var store history.Store
	if *historyFile != "" {
		store = history.FileStore(*historyFile)
	}

	var ed *readline.Editor
	complete := func(line []byte, cursor int) []byte {
		word := lastWord(line[:cursor])
		if word == "" {
			return nil
		}
		var matches []string
		for _, c := range commands {
			if strings.HasPrefix(c, word) {
				matches = append(matches, c)
			}
		}
		switch len(matches) {
		case 0:
			return nil
		case 1:
			return []byte(matches[0][len(word):] + " ")
		default:
			ed.DumpOptions(matches)
			return nil
		}
	}

	var err error
	ed, err = readline.New(readline.Config{History: store, SortHints: true}, complete)
	if err != nil {
		log.Fatalf("readline: %s", err)
	}
	defer ed.Close()

	for {
		line, err := ed.Readline("> ", "")
		if err != nil {
			if err == io.EOF {
				fmt.Println("Goodbye!")
				return
			}
			log.Printf("read: %s", err)
			return
		}

		if line == "quit" {
			fmt.Println("Goodbye!")
			return
		}
		log.Printf("read: %q", line)
	}
}

// lastWord returns the run of non-space bytes ending at b's end.
func lastWord(b []byte) string {
	i := len(b)
	for i > 0 && b[i-1] != ' ' {
		i--
	}
	return string(b[i:])
}
