package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/frankonly/merklekit/crypto"
	"github.com/frankonly/merklekit/merkle"
)

func newHashCmd(v *viper.Viper) *cobra.Command {
	var isHex bool

	cmd := &cobra.Command{
		Use:   "hash VALUE...",
		Short: "Print the digest of each value",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasher, err := crypto.HasherByName(v.GetString("hasher"))
			if err != nil {
				return err
			}

			for _, arg := range args {
				value, err := parseValue(arg, isHex)
				if err != nil {
					return err
				}

				digest, err := crypto.HashWith(hasher, value)
				if err != nil {
					return fmt.Errorf("failed to hash %q: %w", arg, err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), digest)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&isHex, "hex", false, "values are hex encoded bytes")
	return cmd
}

func newListCmd(v *viper.Viper) *cobra.Command {
	var isHex, all, digestOnly bool

	cmd := &cobra.Command{
		Use:   "list VALUE...",
		Short: "Append values to a hash chain and print the head digest",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := newBuilder(v)
			if err != nil {
				return err
			}

			digests := make([]crypto.Digest, 0, len(args))
			var head *merkle.ListNode
			var link *merkle.Link

			for _, arg := range args {
				value, err := parseValue(arg, isHex)
				if err != nil {
					return err
				}

				if digestOnly {
					link, err = builder.Link(value, link)
					if err != nil {
						return fmt.Errorf("failed to link %q: %w", arg, err)
					}
					digests = append(digests, link.Digest())
				} else {
					head, err = builder.Append(value, head)
					if err != nil {
						return fmt.Errorf("failed to append %q: %w", arg, err)
					}
					digests = append(digests, head.Digest())
				}
			}

			if !all {
				digests = digests[len(digests)-1:]
			}
			for _, digest := range digests {
				fmt.Fprintln(cmd.OutOrStdout(), digest)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&isHex, "hex", false, "values are hex encoded bytes")
	cmd.Flags().BoolVar(&all, "all", false, "print the digest of every element, oldest first")
	cmd.Flags().BoolVar(&digestOnly, "digest-only", false, "keep only digests in the chain")
	return cmd
}

func newTreeCmd(v *viper.Viper) *cobra.Command {
	var binary, verify bool

	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Build a tree from a YAML or JSON shape file and print the root digest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := newBuilder(v)
			if err != nil {
				return err
			}

			shape, err := loadShape(args[0])
			if err != nil {
				return err
			}

			var digest crypto.Digest
			if binary {
				root, err := builder.BuildBinary(commandContext(cmd), shape)
				if err != nil {
					return err
				}
				if verify {
					if err := builder.VerifyBinary(root); err != nil {
						return err
					}
				}
				digest = root.Digest()
			} else {
				root, err := builder.Build(commandContext(cmd), shape)
				if err != nil {
					return err
				}
				if verify {
					if err := builder.VerifyTree(root); err != nil {
						return err
					}
				}
				digest = root.Digest()
			}

			fmt.Fprintln(cmd.OutOrStdout(), digest)
			return nil
		},
	}

	cmd.Flags().BoolVar(&binary, "binary", false, "build a binary tree, at most two children per node")
	cmd.Flags().BoolVar(&verify, "verify", false, "rehash the whole tree after building it")
	return cmd
}

func newProveCmd(v *viper.Viper) *cobra.Command {
	var binary bool

	cmd := &cobra.Command{
		Use:   "prove FILE [PATH]",
		Short: "Print the inclusion proof of the node at a comma separated child index path",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := newBuilder(v)
			if err != nil {
				return err
			}

			shape, err := loadShape(args[0])
			if err != nil {
				return err
			}

			var path []int
			if len(args) == 2 {
				if path, err = parsePath(args[1]); err != nil {
					return err
				}
			}

			var proof *merkle.Proof
			var root crypto.Digest
			if binary {
				tree, err := builder.BuildBinary(commandContext(cmd), shape)
				if err != nil {
					return err
				}

				sides := make([]merkle.Side, len(path))
				for i, index := range path {
					sides[i] = merkle.Side(index)
				}
				if proof, err = builder.ProveBinary(tree, sides...); err != nil {
					return err
				}
				root = tree.Digest()
			} else {
				tree, err := builder.Build(commandContext(cmd), shape)
				if err != nil {
					return err
				}

				if proof, err = builder.ProveTree(tree, path...); err != nil {
					return err
				}
				root = tree.Digest()
			}

			if err := proof.Verify(builder.Hasher(), root); err != nil {
				return err
			}

			out, err := yaml.Marshal(struct {
				Root  crypto.Digest `yaml:"root"`
				Proof *merkle.Proof `yaml:"proof"`
			}{root, proof})
			if err != nil {
				return fmt.Errorf("failed to encode proof: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().BoolVar(&binary, "binary", false, "build a binary tree, 0 is left and 1 is right in PATH")
	return cmd
}

func parseValue(arg string, isHex bool) (crypto.Hashable, error) {
	if !isHex {
		return crypto.Text(arg), nil
	}

	raw, err := hex.DecodeString(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid hex value %q: %w", arg, err)
	}
	return crypto.Raw(raw), nil
}

func parsePath(arg string) ([]int, error) {
	if arg == "" {
		return nil, nil
	}

	parts := strings.Split(arg, ",")
	path := make([]int, len(parts))
	for i, part := range parts {
		index, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", arg, err)
		}
		path[i] = index
	}

	return path, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
