package i18n

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/tecsopro/tecsobot/internal/infra"
	"github.com/tecsopro/tecsobot/resources"
)

var state = struct {
	translations  map[string]map[string]string
	loaded        map[string]bool
	resourcesPath string
}{
	translations:  make(map[string]map[string]string),
	loaded:        make(map[string]bool),
	resourcesPath: infra.GetResourcesPath("i18n"),
}

func load(lang string) {
	if "en" == lang {
		return
	}

	raw, err := resources.FS.ReadFile(state.resourcesPath + "/" + fmt.Sprintf("%s.yml", lang))
	if err != nil {
		log.WithError(err).Errorln("cant load i18n")
		return
	}
	translations := make(map[string]string)
	if err := yaml.Unmarshal(raw, &translations); err != nil {
		log.WithError(err).Errorln("cant unmarshal i18n")
		return
	}
	state.translations[lang] = translations
	state.loaded[lang] = true
}

func Get(key, lang string) string {
	if "en" == lang {
		return key
	}
	if !state.loaded[lang] {
		load(lang)
	}
	if res, ok := state.translations[lang][key]; ok {
		return res
	}
	log.Tracef(`no translation for key %q`, key)
	return key
}
