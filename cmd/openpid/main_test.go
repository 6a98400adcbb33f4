package main

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/openpid/internal/config"
	"github.com/san-kum/openpid/internal/experiment"
)

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	log.SetOutput(io.Discard)
	return out.String(), err
}

var _ = BeforeEach(func() {
	log.SetOutput(io.Discard)
})

var _ = Describe("selectChannels", func() {
	names := []string{"x", "v", "theta", "omega"}

	It("selects every channel by default", func() {
		idx, err := selectChannels(names, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(idx).To(Equal([]int{0, 1, 2, 3}))
	})

	It("accepts names and indices", func() {
		idx, err := selectChannels(names, []string{"theta", "1", " omega"})
		Expect(err).NotTo(HaveOccurred())
		Expect(idx).To(Equal([]int{2, 1, 3}))
	})

	DescribeTable("rejects unknown channels",
		func(want string) {
			_, err := selectChannels(names, []string{want})
			Expect(err).To(MatchError(ContainSubstring("unknown channel")))
		},
		Entry("name", "phi"),
		Entry("index past the end", "4"),
		Entry("negative index", "-1"),
	)
})

var _ = Describe("config show", func() {
	It("prints the default preset", func() {
		out, err := execute("config", "show", "msd_pid")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("scenario: msd_pid"))
		Expect(out).To(ContainSubstring("dt: 0.01"))
	})

	It("applies flag overrides", func() {
		out, err := execute("config", "show", "msd_pid", "--steps", "7", "--integrator", "rk4")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("steps: 7"))
		Expect(out).To(ContainSubstring("integrator: rk4"))
	})

	It("reads overrides from the environment, flags winning", func() {
		Expect(os.Setenv("OPENPID_DT", "0.05")).To(Succeed())
		DeferCleanup(os.Unsetenv, "OPENPID_DT")

		out, err := execute("config", "show", "msd_pid")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("dt: 0.05"))

		out, err = execute("config", "show", "msd_pid", "--dt", "0.02")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("dt: 0.02"))
	})

	It("falls back to the first preset of a scenario without a default", func() {
		out, err := execute("config", "show", "missile")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("scenario: missile"))
	})

	It("rejects an unknown preset", func() {
		_, err := execute("config", "show", "msd_pid", "--preset", "nope")
		Expect(err).To(MatchError(ContainSubstring("unknown preset")))
	})

	It("rejects invalid overrides", func() {
		_, err := execute("config", "show", "msd_pid", "--integrator", "leapfrog")
		Expect(err).To(MatchError(config.ErrInvalidConfig))
	})
})

var _ = Describe("config init", func() {
	It("writes a loadable file and refuses to overwrite it", func() {
		path := filepath.Join(GinkgoT().TempDir(), "openpid.yaml")

		_, err := execute("config", "init", path, "--steps", "42")
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Scenario).To(Equal(config.DefaultScenario))
		Expect(cfg.Steps).To(Equal(42))

		_, err = execute("config", "init", path)
		Expect(err).To(MatchError(ContainSubstring("exists")))

		_, err = execute("config", "init", path, "--force")
		Expect(err).NotTo(HaveOccurred())
	})
})

var _ = Describe("run", func() {
	It("prints a summary", func() {
		out, err := execute("run", "double_integrator", "--plot", "--channel", "x")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("double_integrator/default"))
		Expect(out).To(ContainSubstring("control_effort"))
	})

	It("prints the trajectory as CSV", func() {
		out, err := execute("run", "double_integrator", "--csv", "--steps", "4")
		Expect(err).NotTo(HaveOccurred())

		rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(6))
		Expect(rows[0]).To(Equal([]string{"time", "x", "v", "u0"}))
		Expect(rows[1]).To(Equal([]string{"0", "1", "0", "1"}))
		Expect(rows[5][3]).To(BeEmpty())
	})

	It("reports an unknown scenario", func() {
		_, err := execute("run", "pendulum")
		Expect(err).To(MatchError(experiment.ErrUnknownScenario))
	})

	It("runs every scenario concurrently", func() {
		out, err := execute("run", "--all", "--workers", "2")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("missile/boost"))
		Expect(out).To(ContainSubstring("cart_state_feedback/default"))
	})
})

var _ = Describe("analyze", func() {
	It("finds the free oscillation of the mass-spring-damper", func() {
		out, err := execute("analyze", "msd_pid", "--preset", "free_decay", "--phase", "x,v")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("dominant frequency"))
		Expect(out).To(ContainSubstring("decaying true"))
		Expect(out).To(ContainSubstring("phase portrait"))
	})

	It("rejects a malformed phase selection", func() {
		_, err := execute("analyze", "msd_pid", "--phase", "x")
		Expect(err).To(MatchError(ContainSubstring("two channels")))
	})
})

var _ = Describe("tune", func() {
	It("reports the best grid point", func() {
		out, err := execute("tune", "msd_pid", "-p", "kp=10,100", "-p", "kd=20")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("best kd=20 kp=100"))
	})

	It("requires a parameter", func() {
		_, err := execute("tune", "msd_pid")
		Expect(err).To(MatchError(ContainSubstring("--param")))
	})
})
