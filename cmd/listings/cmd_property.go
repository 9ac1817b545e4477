package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/persistorai/listings/client"
)

func newPropertyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "property",
		Aliases: []string{"properties"},
		Short:   "Manage properties",
	}
	cmd.AddCommand(propertyListCmd())
	cmd.AddCommand(propertyGetCmd())
	cmd.AddCommand(propertyCreateCmd())
	cmd.AddCommand(propertyUpdateCmd())
	cmd.AddCommand(propertyChangesCmd())
	return cmd
}

// propertyFlags holds the editable fields shared by create and update.
type propertyFlags struct {
	name, description, image, location, price, address string
	area, rooms, bathrooms                             int
	garage, isSold                                     bool
}

func (f *propertyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Property name")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().StringVar(&f.image, "image", "", "Image URL")
	cmd.Flags().StringVar(&f.location, "location", "", "Location")
	cmd.Flags().StringVar(&f.price, "price", "", "Price")
	cmd.Flags().StringVar(&f.address, "address", "", "Street address")
	cmd.Flags().IntVar(&f.area, "area", 0, "Area")
	cmd.Flags().IntVar(&f.rooms, "rooms", 0, "Number of rooms")
	cmd.Flags().IntVar(&f.bathrooms, "bathrooms", 0, "Number of bathrooms")
	cmd.Flags().BoolVar(&f.garage, "garage", false, "Has a garage")
	cmd.Flags().BoolVar(&f.isSold, "is-sold", false, "Mark as sold")
}

// updateRequest sets only the fields whose flags were given explicitly.
func (f *propertyFlags) updateRequest(cmd *cobra.Command) *client.UpdatePropertyRequest {
	req := &client.UpdatePropertyRequest{}
	changed := cmd.Flags().Changed

	if changed("name") {
		req.Name = &f.name
	}
	if changed("description") {
		req.Description = &f.description
	}
	if changed("image") {
		req.Image = &f.image
	}
	if changed("location") {
		req.Location = &f.location
	}
	if changed("price") {
		req.Price = &f.price
	}
	if changed("address") {
		req.Address = &f.address
	}
	if changed("area") {
		req.Area = &f.area
	}
	if changed("rooms") {
		req.Rooms = &f.rooms
	}
	if changed("bathrooms") {
		req.Bathrooms = &f.bathrooms
	}
	if changed("garage") {
		req.Garage = &f.garage
	}
	if changed("is-sold") {
		req.IsSold = &f.isSold
	}
	return req
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid property id %q", arg)
	}
	return id, nil
}

func propertyListCmd() *cobra.Command {
	var offset, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List properties",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			props, err := apiClient.Properties.List(context.Background(), &client.ListOptions{Offset: offset, Limit: limit})
			if err != nil {
				fatal("list properties", err)
			}
			if flagFmt == "table" {
				printPropertyTable(props)
				return
			}
			output(props, strconv.Itoa(len(props)))
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of properties to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max properties to return (server default 100)")
	return cmd
}

func propertyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a property by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := parseID(args[0])
			if err != nil {
				fatal("get property", err)
			}
			p, err := apiClient.Properties.Get(context.Background(), id)
			if err != nil {
				fatal("get property", err)
			}
			if flagFmt == "table" {
				printPropertyTable([]client.Property{*p})
				return
			}
			output(p, strconv.FormatInt(p.ID, 10))
		},
	}
}

func propertyCreateCmd() *cobra.Command {
	var f propertyFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a property",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreatePropertyRequest{
				Name:        f.name,
				Description: f.description,
				Image:       f.image,
				Location:    f.location,
				Price:       f.price,
				Address:     f.address,
				Area:        f.area,
				Rooms:       f.rooms,
				Bathrooms:   f.bathrooms,
				Garage:      f.garage,
				IsSold:      f.isSold,
			}
			id, err := apiClient.Properties.Create(context.Background(), req)
			if err != nil {
				fatal("create property", err)
			}
			output(map[string]int64{"property_id": id}, strconv.FormatInt(id, 10))
		},
	}
	f.register(cmd)
	for _, name := range []string{"name", "description", "image", "location", "price", "address"} {
		cmd.MarkFlagRequired(name) //nolint:errcheck // flag is registered above.
	}
	return cmd
}

func propertyUpdateCmd() *cobra.Command {
	var f propertyFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a property; only the given flags are sent",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := parseID(args[0])
			if err != nil {
				fatal("update property", err)
			}
			p, err := apiClient.Properties.Update(context.Background(), id, f.updateRequest(cmd))
			if err != nil {
				fatal("update property", err)
			}
			output(p, strconv.FormatInt(p.ID, 10))
		},
	}
	f.register(cmd)
	return cmd
}

func propertyChangesCmd() *cobra.Command {
	var field string
	cmd := &cobra.Command{
		Use:   "changes <id>",
		Short: "Show the field-level change log of a property",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := parseID(args[0])
			if err != nil {
				fatal("list changes", err)
			}
			changes, err := apiClient.Properties.Changes(context.Background(), id, field)
			if err != nil {
				fatal("list changes", err)
			}
			if flagFmt == "table" {
				printChangeTable(changes)
				return
			}
			output(changes, strconv.Itoa(len(changes)))
		},
	}
	cmd.Flags().StringVar(&field, "field", "", "Only show changes to this field")
	return cmd
}

func printPropertyTable(props []client.Property) {
	rows := make([][]string, 0, len(props))
	for _, p := range props {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10), p.Name, p.Location, p.Price,
			strconv.Itoa(p.Rooms), strconv.FormatBool(p.IsSold),
		})
	}
	formatTable([]string{"ID", "NAME", "LOCATION", "PRICE", "ROOMS", "SOLD"}, rows)
}

func printChangeTable(changes []client.PropertyChange) {
	rows := make([][]string, 0, len(changes))
	for _, c := range changes {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10), c.ChangedField, c.OldValue, c.NewValue,
			c.ChangedAt.UTC().Format(time.RFC3339),
		})
	}
	formatTable([]string{"ID", "FIELD", "OLD", "NEW", "CHANGED_AT"}, rows)
}
