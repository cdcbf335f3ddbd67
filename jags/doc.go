// SPDX-License-Identifier: MIT

// Package jags runs assembled jobs with the JAGS command-line sampler.
//
// Files written per job, under one work directory named after the job ID:
//
//	data.R                 model data in R dump format (column-major, NA)
//	chainN/inits.R         p.global, .RNG.name and .RNG.seed for chain N
//	chainN/script.cmd      JAGS command script for chain N
//	chainN/CODAindex.txt   written by JAGS
//	chainN/CODAchain1.txt  written by JAGS
//
// Runner starts one JAGS process per chain, runs them concurrently and
// waits for all of them; the first failure cancels the others.
package jags
