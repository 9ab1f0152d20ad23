// Package neat provides the genome and phenotype engine of a NeuroEvolution of
// Augmenting Topologies (NEAT) implementation.
//
// Genomes are graphs of node genes and connection genes. They grow through
// structural mutations (add node, add connection, toggle) and recombine through
// crossover aligned on innovation numbers. Every genome of a population shares
// one InnovationLedger, so the same structural change gets the same historical
// marking wherever it happens. The nn subpackage turns a genome into an
// evaluable feed-forward network.
//
// Selection, speciation and fitness are left to the caller; examples/xor shows a
// small generational loop built on the public API.
//
// Basic usage:
//
//	config, err := neat.LoadConfig("path/to/config.ini")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	ledger := neat.NewInnovationLedger()
//	g, err := neat.Generate(config.Genome.NumInputs, config.Genome.NumOutputs, &config.Rates, ledger, 42)
//	if err != nil {
//		log.Fatalf("Error creating genome: %v", err)
//	}
//	g.Mutate()
//
//	net, err := nn.New(g)
//	if err != nil {
//		log.Fatalf("Error building network: %v", err)
//	}
//	outputs, err := net.Activate([]float64{0, 1, 1})
package neat
