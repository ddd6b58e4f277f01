package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scanpath/internal/paths"
)

func newTemplateCmd(newSvc func() (*services, func(), error), jsonOutput *bool) *cobra.Command {
	templateCmd := &cobra.Command{Use: "template", Aliases: []string{"tpl", "templates"}, Short: "Manage reusable path templates"}

	addCmd := &cobra.Command{
		Use:   "add <kind> <template>",
		Short: "Validate and store a template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := paths.ParseKind(args[0])
			if err != nil {
				return err
			}
			svc, cleanup, err := newSvc()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.App.AddTemplate(cmd.Context(), kind, args[1]); err != nil {
				return err
			}
			return print(*jsonOutput, map[string]string{"kind": string(kind), "template": args[1]},
				fmt.Sprintf("added %s template: %s", kind, args[1]))
		},
	}

	listCmd := &cobra.Command{
		Use:     "list [kind]",
		Aliases: []string{"ls"},
		Short:   "List stored templates",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind paths.Kind
			if len(args) == 1 {
				parsed, err := paths.ParseKind(args[0])
				if err != nil {
					return err
				}
				kind = parsed
			}
			svc, cleanup, err := newSvc()
			if err != nil {
				return err
			}
			defer cleanup()

			templates, err := svc.App.ListTemplates(cmd.Context(), kind)
			if err != nil {
				return err
			}
			if *jsonOutput {
				return print(true, templates, "")
			}
			for _, k := range paths.Kinds() {
				texts, ok := templates[k]
				if !ok {
					continue
				}
				fmt.Printf("%s templates:\n", k)
				if len(texts) == 0 {
					fmt.Println("    <none>")
					continue
				}
				for _, text := range texts {
					fmt.Printf("    %s\n", text)
				}
			}
			return nil
		},
	}

	templateCmd.AddCommand(addCmd)
	templateCmd.AddCommand(listCmd)
	return templateCmd
}
