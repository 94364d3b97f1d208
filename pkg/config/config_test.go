package config_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quillardco/sensei/pkg/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Configer config", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).NotTo(BeNil())

			defaults := config.NewDefaultConfig()
			Expect(cfg.Version).To(Equal(defaults.Version))
			Expect(cfg.LLM.Provider).To(Equal(defaults.LLM.Provider))
			Expect(cfg.LLM.Target).To(Equal(defaults.LLM.Target))
			Expect(cfg.LLM.Model).To(Equal(defaults.LLM.Model))
			Expect(cfg.API.Listen).To(Equal(defaults.API.Listen))
			Expect(cfg.Client.APITarget).To(Equal(defaults.Client.APITarget))
			Expect(cfg.Assist.HistoryWindow).To(Equal(defaults.Assist.HistoryWindow))
			Expect(cfg.Events.Topic).To(Equal(defaults.Events.Topic))
		})

		It("loads a valid config file", func() {
			data := `version = 0

[storage]
sqlite_path = "/tmp/sensei.db"

[llm]
provider = "openai"
target = "https://api.openai.com"
model = "gpt-4o"

[api]
listen = ":9090"
`
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Storage.SQLitePath).To(Equal("/tmp/sensei.db"))
			Expect(cfg.LLM.Provider).To(Equal("openai"))
			Expect(cfg.LLM.Target).To(Equal("https://api.openai.com"))
			Expect(cfg.LLM.Model).To(Equal("gpt-4o"))
			Expect(cfg.API.Listen).To(Equal(":9090"))
		})

		It("fills unset fields with defaults", func() {
			data := `[llm]
provider = "openai"
`
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())

			defaults := config.NewDefaultConfig()
			Expect(cfg.LLM.Provider).To(Equal("openai"))
			Expect(cfg.LLM.Target).To(Equal(defaults.LLM.Target))
			Expect(cfg.API.Listen).To(Equal(defaults.API.Listen))
			Expect(cfg.Assist.HistoryWindow).To(Equal(defaults.Assist.HistoryWindow))
		})

		It("fails on malformed TOML", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not [valid toml"), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SaveConfig", func() {
		It("round-trips a config through disk", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.NewDefaultConfig()
			cfg.Storage.PostgresDSN = "postgres://localhost:5432/sensei"
			Expect(c.SaveConfig(cfg)).To(Succeed())

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Storage.PostgresDSN).To(Equal("postgres://localhost:5432/sensei"))
		})

		It("rejects a nil config", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(nil)).To(HaveOccurred())
		})
	})

	Describe("SetConfigValue and GetConfigValue", func() {
		It("round-trips a string key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("llm.model", "gpt-4o")).To(Succeed())

			value, err := c.GetConfigValue("llm.model")
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("gpt-4o"))
		})

		It("round-trips the numeric history window", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("assist.history_window", "8")).To(Succeed())

			value, err := c.GetConfigValue("assist.history_window")
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("8"))
		})

		It("round-trips the boolean events toggle", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("events.enabled", "true")).To(Succeed())

			value, err := c.GetConfigValue("events.enabled")
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("true"))
		})

		It("rejects an invalid numeric value", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SetConfigValue("assist.history_window", "many")).To(HaveOccurred())
		})

		It("rejects an unknown key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("llm.flavor", "spicy")).To(HaveOccurred())

			_, err = c.GetConfigValue("llm.flavor")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ValidConfigKeys", func() {
		It("covers every key the registry knows", func() {
			keys := config.ValidConfigKeys()
			Expect(keys).To(HaveLen(12))
			for _, key := range keys {
				Expect(config.IsValidConfigKey(key)).To(BeTrue())
			}
		})

		It("rejects unknown keys", func() {
			Expect(config.IsValidConfigKey("nope")).To(BeFalse())
		})
	})
})
